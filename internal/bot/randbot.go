package bot

import (
	"github.com/lox/pokerrooms/internal/game"
)

const (
	checkFrequency = 0.8
	foldFrequency  = 0.3
)

// RandomPolicy is the house bot: it mostly checks when it can, otherwise makes a
// minimum bet, and folds a fixed share of the time when facing a bet.
type RandomPolicy struct {
	rng RNG
}

// NewRandomPolicy creates a new RandomPolicy instance
func NewRandomPolicy(rng RNG) *RandomPolicy {
	return &RandomPolicy{rng: rng}
}

func (r *RandomPolicy) Name() string { return "random" }

func (r *RandomPolicy) Decide(s Situation) Decision {
	opts := s.Options
	if len(opts.Actions) == 0 {
		return Decision{Action: game.Action{Kind: game.Fold}, Reasoning: "no legal actions"}
	}

	if opts.ToCall == 0 {
		if r.rng.Float64() < checkFrequency && opts.Allows(game.Check) {
			return Decision{Action: game.Action{Kind: game.Check}, Reasoning: "checking"}
		}
		switch {
		case opts.Allows(game.Bet):
			return Decision{Action: game.BetAction(opts.MinRaiseTo), Reasoning: "minimum bet"}
		case opts.Allows(game.Raise):
			// Big blind option preflop
			return Decision{Action: game.RaiseAction(opts.MinRaiseTo), Reasoning: "minimum raise"}
		default:
			return fallback(opts, "checking")
		}
	}

	if r.rng.Float64() < foldFrequency {
		return Decision{Action: game.Action{Kind: game.Fold}, Reasoning: "random fold"}
	}
	return callOrShove(opts, "calling")
}
