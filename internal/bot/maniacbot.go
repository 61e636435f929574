package bot

import "github.com/lox/pokerrooms/internal/game"

// Maniac raises or shoves most of the time, calls sometimes and rarely folds. It puts
// stacks all-in often, which keeps side pots busy in simulations.
type Maniac struct {
	rng RNG
}

// NewManiac creates a new Maniac instance
func NewManiac(rng RNG) *Maniac {
	return &Maniac{rng: rng}
}

func (m *Maniac) Name() string { return "maniac" }

func (m *Maniac) Decide(s Situation) Decision {
	opts := s.Options
	roll := m.rng.Float64()

	switch {
	case roll < 0.2 && opts.Allows(game.AllIn):
		return Decision{Action: game.Action{Kind: game.AllIn}, Reasoning: "maniac shove"}
	case roll < 0.7:
		if amount, ok := m.sizing(opts); ok {
			kind := game.Raise
			if opts.Allows(game.Bet) {
				kind = game.Bet
			}
			return Decision{Action: game.Action{Kind: kind, Amount: amount}, Reasoning: "maniac aggression"}
		}
	case roll > 0.95 && opts.ToCall > 0:
		return Decision{Action: game.Action{Kind: game.Fold}, Reasoning: "maniac gives up"}
	}
	return callOrShove(opts, "maniac calling")
}

// sizing picks an amount between the minimum and three times the minimum
func (m *Maniac) sizing(opts game.ActionOptions) (int, bool) {
	if !opts.Allows(game.Bet) && !opts.Allows(game.Raise) {
		return 0, false
	}
	lo, hi := opts.MinRaiseTo, min(opts.MinRaiseTo*3, opts.MaxRaiseTo)
	if hi <= lo {
		return lo, true
	}
	return lo + m.rng.IntN(hi-lo+1), true
}
