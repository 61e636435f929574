package bot

import "github.com/lox/pokerrooms/internal/game"

// CallingStation checks or calls every street and never folds a hand it can continue with
type CallingStation struct{}

// NewCallingStation creates a new CallingStation instance
func NewCallingStation() *CallingStation {
	return &CallingStation{}
}

func (c *CallingStation) Name() string { return "calling" }

func (c *CallingStation) Decide(s Situation) Decision {
	if s.Options.Allows(game.Check) {
		return Decision{Action: game.Action{Kind: game.Check}, Reasoning: "call-bot checking"}
	}
	return callOrShove(s.Options, "call-bot calling")
}
