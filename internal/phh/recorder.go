package phh

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/poker"
)

// Variant is the PHH code for no-limit Texas Hold'em
const Variant = "NT"

// Recorder builds a hand history while a hand is played. Players are numbered from the
// small blind, so p1 posts the small blind and p2 the big blind.
type Recorder struct {
	hand   *HandHistory
	order  []string       // Seat IDs by player number
	player map[string]int // Seat ID to player number
	total  map[string]int // Chips committed as last seen
	street map[string]int // Street commitment as last seen
	bet    int            // Highest street commitment
	board  int            // Community cards recorded
}

// NewRecorder starts recording a hand that has just been started
func NewRecorder(handID, table string, h *game.HandState, at time.Time) *Recorder {
	n := len(h.Seats)
	at = at.UTC()
	r := &Recorder{
		hand: &HandHistory{
			Variant:           Variant,
			Table:             table,
			SeatCount:         n,
			Antes:             make([]int, n),
			BlindsOrStraddles: make([]int, n),
			MinBet:            h.BigBlind(),
			StartingStacks:    make([]int, n),
			HandID:            handID,
			Time:              at.Format(time.TimeOnly),
			TimeZone:          "UTC",
			Day:               at.Day(),
			Month:             int(at.Month()),
			Year:              at.Year(),
			Timestamp:         at,
		},
		player: make(map[string]int, n),
		total:  make(map[string]int, n),
		street: make(map[string]int, n),
		bet:    h.CurrentBet,
	}

	for i := range n {
		seat := h.Seats[(h.SmallBlindIndex+i)%n]
		r.order = append(r.order, seat.ID)
		r.player[seat.ID] = i
		r.hand.Players = append(r.hand.Players, seat.Name)
		r.hand.StartingStacks[i] = seat.Stack + seat.TotalContributed
		r.total[seat.ID] = seat.TotalContributed
		r.street[seat.ID] = seat.StreetBet
	}
	r.hand.BlindsOrStraddles[r.player[h.Seats[h.SmallBlindIndex].ID]] = h.Seats[h.SmallBlindIndex].TotalContributed
	r.hand.BlindsOrStraddles[r.player[h.Seats[h.BigBlindIndex].ID]] = h.Seats[h.BigBlindIndex].TotalContributed

	for i, id := range r.order {
		seat, _ := h.Seat(id)
		r.add("d dh p%d %s", i+1, cards(seat.HoleCards))
	}
	// Blinds alone can put everyone all-in and deal the board
	r.syncBoard(h)
	return r
}

// Record notes an action that h has just applied for seatID
func (r *Recorder) Record(seatID string, kind game.ActionKind, h *game.HandState) {
	seat, ok := h.Seat(seatID)
	if !ok {
		return
	}
	p := r.player[seatID] + 1

	delta := seat.TotalContributed - r.total[seatID]
	r.total[seatID] = seat.TotalContributed
	r.street[seatID] += delta

	switch {
	case kind == game.Fold:
		r.add("p%d f", p)
	case r.street[seatID] > r.bet:
		r.bet = r.street[seatID]
		r.add("p%d cbr %d", p, r.bet)
	default:
		r.add("p%d cc", p)
	}
	r.syncBoard(h)
}

// Finish completes the history from a finished hand
func (r *Recorder) Finish(h *game.HandState) *HandHistory {
	r.syncBoard(h)

	n := len(r.order)
	r.hand.FinishingStacks = make([]int, n)
	r.hand.Winnings = make([]int, n)
	for i, id := range r.order {
		seat, _ := h.Seat(id)
		r.hand.FinishingStacks[i] = seat.Stack
		if h.ShowdownReached && seat.InHand() {
			r.add("p%d sm %s", i+1, cards(seat.HoleCards))
		}
	}
	for _, w := range h.Winners {
		if i, ok := r.player[w.SeatID]; ok {
			r.hand.Winnings[i] += w.Amount
		}
	}
	return r.hand
}

// syncBoard records community cards dealt since the last look. Each new street
// resets the street commitments.
func (r *Recorder) syncBoard(h *game.HandState) {
	for r.board < len(h.Community) {
		n := 1
		if r.board == 0 {
			n = 3
		}
		n = min(n, len(h.Community)-r.board)
		r.add("d db %s", cards(h.Community[r.board:r.board+n]))
		r.board += n
		clear(r.street)
		r.bet = 0
	}
}

func (r *Recorder) add(format string, args ...any) {
	r.hand.Actions = append(r.hand.Actions, fmt.Sprintf(format, args...))
}

// cards joins cards in PHH notation, e.g. "AsTd"
func cards(cs []poker.Card) string {
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(c.String())
	}
	return b.String()
}
