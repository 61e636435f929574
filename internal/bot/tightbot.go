package bot

import (
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/poker"
)

// Tier groups starting hands by preflop strength
type Tier int

const (
	Trash Tier = iota
	Weak
	Medium
	Strong
	Premium
)

func (t Tier) String() string {
	switch t {
	case Premium:
		return "premium"
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	case Weak:
		return "weak"
	default:
		return "trash"
	}
}

// StartingTier buckets two hole cards. Premium is JJ+ and AK, strong is TT, AQ and AJ,
// medium is 77-99 and suited broadway, weak is small pairs and suited connectors.
func StartingTier(a, b poker.Card) Tier {
	lo, hi := a.Rank, b.Rank
	if lo > hi {
		lo, hi = hi, lo
	}
	pair := lo == hi
	suited := a.Suit == b.Suit

	switch {
	case pair && lo >= poker.Jack, lo == poker.King && hi == poker.Ace:
		return Premium
	case pair && lo == poker.Ten, hi == poker.Ace && (lo == poker.Queen || lo == poker.Jack):
		return Strong
	case pair && lo >= poker.Seven, suited && lo >= poker.Ten:
		return Medium
	case pair, suited && hi-lo <= 2:
		return Weak
	default:
		return Trash
	}
}

// Tight plays few starting hands and bets when it has made something. It is the only
// policy that looks at its cards, so simulations show whether hand selection pays.
type Tight struct{}

// NewTight creates a Tight policy
func NewTight() *Tight {
	return &Tight{}
}

func (t *Tight) Name() string { return "tight" }

func (t *Tight) Decide(s Situation) Decision {
	if len(s.HoleCards) != 2 {
		return fallback(s.Options, "tight without cards")
	}
	if len(s.View.Community) == 0 {
		return t.preflop(s)
	}
	return t.postflop(s)
}

func (t *Tight) preflop(s Situation) Decision {
	opts := s.Options
	bb := max(s.View.BigBlind, 1)
	tier := StartingTier(s.HoleCards[0], s.HoleCards[1])
	reasoning := "tight " + tier.String()

	switch tier {
	case Premium:
		if d, ok := raiseTo(opts, max(3*s.View.CurrentBet, 3*bb), reasoning+" raise"); ok {
			return d
		}
		return callOrShove(opts, reasoning)
	case Strong:
		if opts.ToCall <= bb {
			if d, ok := raiseTo(opts, 3*bb, reasoning+" open"); ok {
				return d
			}
		}
		if opts.ToCall <= opts.Stack/4 {
			return callOrShove(opts, reasoning)
		}
	case Medium:
		if opts.ToCall <= 3*bb {
			return callOrShove(opts, reasoning)
		}
	case Weak:
		if opts.ToCall <= bb {
			return callOrShove(opts, reasoning)
		}
	}
	return checkOrFold(opts, reasoning)
}

func (t *Tight) postflop(s Situation) Decision {
	opts := s.Options
	cards := append(append([]poker.Card{}, s.HoleCards...), s.View.Community...)
	rank, err := poker.Evaluate(cards...)
	if err != nil {
		return fallback(opts, "tight cannot read the board")
	}
	reasoning := "tight " + rank.Category.String()

	switch {
	case rank.Category >= poker.TwoPair:
		if d, ok := raiseTo(opts, s.View.CurrentBet+s.View.Pot*2/3, reasoning+" value"); ok {
			return d
		}
		return callOrShove(opts, reasoning)
	case rank.Category == poker.Pair && opts.ToCall <= s.View.Pot/2:
		return callOrShove(opts, reasoning)
	}
	return checkOrFold(opts, reasoning)
}

// raiseTo bets or raises to amount, clamped to the legal range
func raiseTo(opts game.ActionOptions, amount int, reasoning string) (Decision, bool) {
	kind := game.Raise
	switch {
	case opts.Allows(game.Bet):
		kind = game.Bet
	case !opts.Allows(game.Raise):
		return Decision{}, false
	}
	amount = min(max(amount, opts.MinRaiseTo), opts.MaxRaiseTo)
	return Decision{Action: game.Action{Kind: kind, Amount: amount}, Reasoning: reasoning}, true
}

func checkOrFold(opts game.ActionOptions, reasoning string) Decision {
	if opts.Allows(game.Check) {
		return Decision{Action: game.Action{Kind: game.Check}, Reasoning: reasoning + " check"}
	}
	return Decision{Action: game.Action{Kind: game.Fold}, Reasoning: reasoning + " fold"}
}
