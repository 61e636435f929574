package game

import "errors"

// Validation failures. Every error returned by StartHand and ApplyAction wraps one of these,
// and a rejected call never mutates the hand.
var (
	ErrNotEnoughPlayers  = errors.New("not enough players with chips")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrHandFinished      = errors.New("hand is finished")
	ErrHandStarted       = errors.New("hand already started")
	ErrHandNotStarted    = errors.New("hand not started")
	ErrIllegalCheck      = errors.New("cannot check")
	ErrNothingToCall     = errors.New("nothing to call")
	ErrIllegalBetSize    = errors.New("illegal bet size")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrIllegalAction     = errors.New("illegal action")
	ErrUnknownSeat       = errors.New("unknown seat")
	ErrDuplicateSeat     = errors.New("duplicate seat")
	ErrUnknownAction     = errors.New("unknown action")
)
