// Package bot contains the decision policies that fill empty seats in a room.
package bot

import (
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/poker"
)

// Situation is everything a policy may look at when it is asked to act
type Situation struct {
	View      game.PublicView
	HoleCards []poker.Card
	Options   game.ActionOptions
}

// Decision is a chosen action with a short explanation for logs
type Decision struct {
	Action    game.Action
	Reasoning string
}

// Policy picks an action for the acting seat. Implementations must only return actions
// permitted by Situation.Options.
type Policy interface {
	Name() string
	Decide(s Situation) Decision
}

// fallback returns the cheapest legal way to continue
func fallback(opts game.ActionOptions, reasoning string) Decision {
	switch {
	case opts.Allows(game.Check):
		return Decision{Action: game.Action{Kind: game.Check}, Reasoning: reasoning}
	case opts.Allows(game.Call):
		return Decision{Action: game.Action{Kind: game.Call}, Reasoning: reasoning}
	default:
		return Decision{Action: game.Action{Kind: game.Fold}, Reasoning: reasoning}
	}
}

// callOrShove calls, or goes all-in when the call takes the whole stack
func callOrShove(opts game.ActionOptions, reasoning string) Decision {
	if opts.ToCall >= opts.Stack && opts.Allows(game.AllIn) {
		return Decision{Action: game.Action{Kind: game.AllIn}, Reasoning: reasoning + " all-in"}
	}
	if opts.Allows(game.Call) {
		return Decision{Action: game.Action{Kind: game.Call}, Reasoning: reasoning}
	}
	return fallback(opts, reasoning)
}

// New returns the policy registered under name, or false
func New(name string, rng RNG) (Policy, bool) {
	switch name {
	case "random", "":
		return NewRandomPolicy(rng), true
	case "calling", "callbot":
		return NewCallingStation(), true
	case "maniac":
		return NewManiac(rng), true
	case "tight":
		return NewTight(), true
	default:
		return nil, false
	}
}

// RNG is the randomness a policy needs. *rand.Rand from math/rand/v2 satisfies it.
type RNG interface {
	Float64() float64
	IntN(n int) int
}
