package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Stage represents where the hand is in its lifecycle
type Stage int

const (
	Preflop Stage = iota
	Flop
	Turn
	River
	Showdown
	Finished
)

func (s Stage) String() string {
	if s < Preflop || s > Finished {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown", "finished"}[s]
}

// MarshalText encodes the stage by name
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a stage name
func (s *Stage) UnmarshalText(b []byte) error {
	for st := Preflop; st <= Finished; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", b)
}

// ActionKind is the tag of an Action
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionKind) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "bet", "raise", "allin"}[a]
}

// MarshalText encodes the kind by name
func (a ActionKind) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a kind by name
func (a *ActionKind) UnmarshalText(b []byte) error {
	kind, err := ParseActionKind(string(b))
	if err != nil {
		return err
	}
	*a = kind
	return nil
}

// ParseActionKind parses an action name. It accepts the spellings clients send for all-in.
func ParseActionKind(s string) (ActionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	case "allin", "all-in", "all_in":
		return AllIn, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Action is a player decision. Amount is the bet size for Bet and the raise-to total
// for Raise; it is ignored for the other kinds.
type Action struct {
	Kind   ActionKind `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

// BetAction opens the betting for amount chips
func BetAction(amount int) Action {
	return Action{Kind: Bet, Amount: amount}
}

// RaiseAction raises the street commitment to a total of to chips
func RaiseAction(to int) Action {
	return Action{Kind: Raise, Amount: to}
}

func (a Action) String() string {
	switch a.Kind {
	case Bet:
		return fmt.Sprintf("bet %d", a.Amount)
	case Raise:
		return fmt.Sprintf("raise to %d", a.Amount)
	default:
		return a.Kind.String()
	}
}

// UnmarshalJSON accepts either a bare action name ("fold") or an object
// ({"type": "raise", "amount": 200}).
func (a *Action) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		kind, err := ParseActionKind(name)
		if err != nil {
			return err
		}
		*a = Action{Kind: kind}
		return nil
	}

	var raw struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		Amount int    `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	name := raw.Type
	if name == "" {
		name = raw.Action
	}
	kind, err := ParseActionKind(name)
	if err != nil {
		return err
	}
	if raw.Amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrIllegalBetSize, raw.Amount)
	}
	*a = Action{Kind: kind, Amount: raw.Amount}
	return nil
}

// ActionOptions describes what the acting seat may do
type ActionOptions struct {
	SeatID     string       `json:"seatId"`
	Actions    []ActionKind `json:"actions"`
	ToCall     int          `json:"toCall"`
	Stack      int          `json:"stack"`
	MinRaiseTo int          `json:"minRaiseTo,omitempty"` // Minimum bet size or raise-to total
	MaxRaiseTo int          `json:"maxRaiseTo,omitempty"` // Stack plus street bet
}

// Allows reports whether kind is among the legal actions
func (o ActionOptions) Allows(kind ActionKind) bool {
	for _, k := range o.Actions {
		if k == kind {
			return true
		}
	}
	return false
}

// move is a validated action ready to apply
type move struct {
	fold   bool
	commit int // chips moved from stack to the street bet
}

// plan validates action for seat without mutating anything
func (h *HandState) plan(seat *Seat, a Action) (move, error) {
	toCall := h.CurrentBet - seat.StreetBet
	maxTo := seat.Stack + seat.StreetBet

	switch a.Kind {
	case Fold:
		return move{fold: true}, nil

	case Check:
		if toCall > 0 {
			return move{}, fmt.Errorf("%w: must call %d", ErrIllegalCheck, toCall)
		}
		return move{}, nil

	case Call:
		if toCall <= 0 {
			return move{}, fmt.Errorf("%w: check instead", ErrNothingToCall)
		}
		return move{commit: min(toCall, seat.Stack)}, nil

	case Bet:
		if h.CurrentBet > 0 {
			return move{}, fmt.Errorf("%w: cannot bet facing %d, raise instead", ErrIllegalAction, h.CurrentBet)
		}
		if a.Amount > seat.Stack {
			return move{}, fmt.Errorf("%w: %w: bet %d exceeds stack %d", ErrIllegalBetSize, ErrInsufficientChips, a.Amount, seat.Stack)
		}
		if a.Amount < h.bigBlind {
			return move{}, fmt.Errorf("%w: minimum bet is %d", ErrIllegalBetSize, h.bigBlind)
		}
		return move{commit: a.Amount}, nil

	case Raise:
		if h.CurrentBet == 0 {
			return move{}, fmt.Errorf("%w: nothing to raise, bet instead", ErrIllegalAction)
		}
		if a.Amount > maxTo {
			return move{}, fmt.Errorf("%w: %w: raise to %d exceeds stack %d", ErrIllegalBetSize, ErrInsufficientChips, a.Amount, maxTo)
		}
		if a.Amount <= h.CurrentBet {
			return move{}, fmt.Errorf("%w: raise must exceed current bet %d", ErrIllegalBetSize, h.CurrentBet)
		}
		if a.Amount < h.CurrentBet+h.MinRaise && a.Amount != maxTo {
			return move{}, fmt.Errorf("%w: minimum raise to %d", ErrIllegalBetSize, h.CurrentBet+h.MinRaise)
		}
		if seat.HasActed {
			return move{}, fmt.Errorf("%w: betting was not reopened, call or fold", ErrIllegalAction)
		}
		return move{commit: a.Amount - seat.StreetBet}, nil

	case AllIn:
		if maxTo > h.CurrentBet && seat.HasActed {
			return move{}, fmt.Errorf("%w: betting was not reopened, call or fold", ErrIllegalAction)
		}
		return move{commit: seat.Stack}, nil

	default:
		return move{}, fmt.Errorf("%w: %d", ErrUnknownAction, a.Kind)
	}
}

// raiseTo records a street commitment above the current bet. A raise of at least the
// minimum reopens the betting; a short all-in raise only does so once the raises since
// the last full bet add up to a full raise.
func (h *HandState) raiseTo(idx, to int) {
	increment := to - h.CurrentBet
	reopens := h.CurrentBet == 0 || increment >= h.MinRaise || to >= h.reopenLevel+h.MinRaise

	if increment >= h.MinRaise {
		h.MinRaise = increment
	}
	h.CurrentBet = to
	h.LastAggressor = idx

	if reopens {
		h.reopenLevel = to
		h.reopen(idx)
	}
}

// reopen requires every other seat that can still act to respond again
func (h *HandState) reopen(aggressor int) {
	for i, s := range h.Seats {
		if i != aggressor && s.Status == Active {
			s.HasActed = false
		}
	}
}

// nextToAct returns the first seat after from that still owes an action, or -1
func (h *HandState) nextToAct(from int) int {
	n := len(h.Seats)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		s := h.Seats[idx]
		if s.Status != Active {
			continue
		}
		if !s.HasActed || s.StreetBet < h.CurrentBet {
			return idx
		}
	}
	return -1
}

// roundComplete reports whether the current street's betting is over
func (h *HandState) roundComplete() bool {
	var active []*Seat
	for _, s := range h.Seats {
		if s.Status == Active {
			active = append(active, s)
		}
	}

	switch len(active) {
	case 0:
		return true
	case 1:
		// Nobody left to bet against: done once the lone seat covers every live street bet
		return !h.liveBetAbove(active[0].StreetBet)
	default:
		return h.nextToAct(-1) == -1
	}
}

// liveBetAbove reports whether any non-folded seat has committed more than amount this street
func (h *HandState) liveBetAbove(amount int) bool {
	for _, s := range h.Seats {
		if s.Status != Folded && s.StreetBet > amount {
			return true
		}
	}
	return false
}

// Options returns the legal actions for the acting seat
func (h *HandState) Options(seatID string) (ActionOptions, error) {
	if !h.started {
		return ActionOptions{}, ErrHandNotStarted
	}
	if h.Finished {
		return ActionOptions{}, ErrHandFinished
	}
	idx := h.seatIndex(seatID)
	if idx < 0 {
		return ActionOptions{}, fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	if idx != h.ActingIndex {
		return ActionOptions{}, ErrNotYourTurn
	}

	seat := h.Seats[idx]
	opts := ActionOptions{
		SeatID:     seatID,
		ToCall:     min(max(h.CurrentBet-seat.StreetBet, 0), seat.Stack),
		Stack:      seat.Stack,
		MaxRaiseTo: seat.Stack + seat.StreetBet,
	}
	if h.CurrentBet == 0 {
		opts.MinRaiseTo = h.bigBlind
	} else {
		opts.MinRaiseTo = min(h.CurrentBet+h.MinRaise, opts.MaxRaiseTo)
	}

	candidates := []Action{
		{Kind: Fold},
		{Kind: Check},
		{Kind: Call},
		BetAction(opts.MinRaiseTo),
		RaiseAction(opts.MinRaiseTo),
		{Kind: AllIn},
	}
	for _, a := range candidates {
		if _, err := h.plan(seat, a); err == nil {
			opts.Actions = append(opts.Actions, a.Kind)
		}
	}
	return opts, nil
}
