package room

import "github.com/lox/pokerrooms/internal/game"

// Notifier receives room output. Rooms call it while holding their lock, so
// implementations must not call back into the room and should not block.
type Notifier interface {
	RoomUpdated(summary Summary)
	HandStarted(code, handID string, view game.PublicView)
	HandUpdated(code string, view game.PublicView)
	PrivateCards(code, playerID string, cards game.PrivateView)
	ActionRequired(code, playerID string, opts game.ActionOptions)
	HandFinished(code string, view game.PublicView)
	PlayerTimedOut(code, playerID string)
	RoomClosed(code string)
}

// NopNotifier discards everything
type NopNotifier struct{}

func (NopNotifier) RoomUpdated(Summary)                               {}
func (NopNotifier) HandStarted(string, string, game.PublicView)       {}
func (NopNotifier) HandUpdated(string, game.PublicView)               {}
func (NopNotifier) PrivateCards(string, string, game.PrivateView)     {}
func (NopNotifier) ActionRequired(string, string, game.ActionOptions) {}
func (NopNotifier) HandFinished(string, game.PublicView)              {}
func (NopNotifier) PlayerTimedOut(string, string)                     {}
func (NopNotifier) RoomClosed(string)                                 {}
