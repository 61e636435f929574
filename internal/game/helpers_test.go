package game

import (
	"fmt"
	"testing"

	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/poker"
	"github.com/stretchr/testify/require"
)

// seatsWith returns seats p0..pN holding the given stacks
func seatsWith(chips ...int) []SeatConfig {
	seats := make([]SeatConfig, len(chips))
	for i, c := range chips {
		seats[i] = SeatConfig{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player %d", i), Chips: c}
	}
	return seats
}

// stackedDeck arranges hole cards in seat order followed by the board
func stackedDeck(holes []string, board string) *poker.Deck {
	var top []poker.Card
	for _, h := range holes {
		top = append(top, poker.MustParseCards(h)...)
	}
	top = append(top, poker.MustParseCards(board)...)
	return poker.NewStackedDeck(randutil.New(1), top...)
}

// startedHand starts a hand with blinds 10/20 and the dealer on p0
func startedHand(t *testing.T, seats []SeatConfig, opts ...HandOption) *HandState {
	t.Helper()
	h := NewHand(randutil.New(42), 10, 20, opts...)
	require.NoError(t, h.StartHand(seats))
	return h
}

func act(t *testing.T, h *HandState, id string, a Action) {
	t.Helper()
	require.NoError(t, h.ApplyAction(id, a), "%s %s", id, a)
}

func stacks(h *HandState) map[string]int {
	out := make(map[string]int, len(h.Seats))
	for _, s := range h.Seats {
		out[s.ID] = s.Stack
	}
	return out
}

func totalChips(h *HandState) int {
	total := 0
	for _, s := range h.Seats {
		total += s.Stack
	}
	return total
}

func checkDown(t *testing.T, h *HandState) {
	t.Helper()
	for !h.Finished {
		seat := h.ActingSeat()
		require.NotNil(t, seat)
		act(t, h, seat.ID, Action{Kind: Check})
	}
}
