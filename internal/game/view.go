package game

import (
	"fmt"

	"github.com/lox/pokerrooms/poker"
)

// PublicSeat is what every observer may see about a seat
type PublicSeat struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Chips     int          `json:"chips"`
	StreetBet int          `json:"streetBet"`
	TotalBet  int          `json:"totalBet"`
	Status    string       `json:"status"`
	Dealer    bool         `json:"dealer,omitempty"`
	Acting    bool         `json:"acting,omitempty"`
	Cards     []poker.Card `json:"cards,omitempty"`    // Only once revealed at the end of the hand
	HandName  string       `json:"handName,omitempty"` // Showdown hand description
}

// PublicView is the hand as every observer may see it. It never contains unrevealed
// hole cards.
type PublicView struct {
	Stage        Stage        `json:"stage"`
	Community    []poker.Card `json:"communityCards"`
	Pot          int          `json:"pot"`
	CurrentBet   int          `json:"currentBet"`
	MinRaise     int          `json:"minRaise"`
	SmallBlind   int          `json:"smallBlind"`
	BigBlind     int          `json:"bigBlind"`
	DealerID     string       `json:"dealerId,omitempty"`
	ActingSeatID string       `json:"actingSeatId,omitempty"`
	Seats        []PublicSeat `json:"seats"`
	Finished     bool         `json:"finished"`
	Showdown     bool         `json:"showdown,omitempty"`
	Pots         []PotLayer   `json:"pots,omitempty"`
	Winners      []Payout     `json:"winners,omitempty"`
	WinningHand  string       `json:"winningHand,omitempty"`
}

// PrivateView is a seat's own hole cards
type PrivateView struct {
	SeatID    string       `json:"seatId"`
	HoleCards []poker.Card `json:"holeCards"`
}

// PublicView projects the hand for observers. Non-folded hands are revealed after a
// showdown, folded hands only when configured to.
func (h *HandState) PublicView() PublicView {
	v := PublicView{
		Stage:      h.Stage,
		Community:  append([]poker.Card{}, h.Community...),
		Pot:        h.Pot(),
		CurrentBet: h.CurrentBet,
		MinRaise:   h.MinRaise,
		SmallBlind: h.smallBlind,
		BigBlind:   h.bigBlind,
		DealerID:   h.Dealer(),
		Finished:   h.Finished,
		Showdown:   h.ShowdownReached,
		Pots:       h.Pots,
		Winners:    h.Winners,
	}
	if acting := h.ActingSeat(); acting != nil {
		v.ActingSeatID = acting.ID
	}

	for i, s := range h.Seats {
		ps := PublicSeat{
			ID:        s.ID,
			Name:      s.Name,
			Chips:     s.Stack,
			StreetBet: s.StreetBet,
			TotalBet:  s.TotalContributed,
			Status:    s.Status.String(),
			Dealer:    i == h.DealerIndex,
			Acting:    i == h.ActingIndex && !h.Finished,
		}
		if h.revealed(s) {
			ps.Cards = append([]poker.Card{}, s.HoleCards...)
			if rank, ok := h.ranks[s.ID]; ok {
				ps.HandName = rank.String()
			}
		}
		v.Seats = append(v.Seats, ps)
	}

	if h.ShowdownReached && len(h.Pots) > 0 && len(h.Pots[0].Winners) > 0 {
		if rank, ok := h.ranks[h.Pots[0].Winners[0]]; ok {
			v.WinningHand = rank.String()
		}
	}
	return v
}

func (h *HandState) revealed(s *Seat) bool {
	if !h.Finished {
		return false
	}
	if s.InHand() {
		return h.ShowdownReached
	}
	return h.revealFolded
}

// PrivateView returns the hole cards dealt to seatID
func (h *HandState) PrivateView(seatID string) (PrivateView, error) {
	s, ok := h.Seat(seatID)
	if !ok {
		return PrivateView{}, fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	return PrivateView{SeatID: s.ID, HoleCards: append([]poker.Card{}, s.HoleCards...)}, nil
}
