package game

import "github.com/lox/pokerrooms/poker"

// SeatStatus is a seat's standing in the current hand
type SeatStatus int

const (
	Active SeatStatus = iota
	Folded
	AllInStatus
)

func (s SeatStatus) String() string {
	if s < Active || s > AllInStatus {
		return "unknown"
	}
	return [...]string{"active", "folded", "allin"}[s]
}

// SeatConfig describes a player entering a hand
type SeatConfig struct {
	ID    string
	Name  string
	Chips int
}

// Seat is a player's state within one hand
type Seat struct {
	ID               string
	Name             string
	Stack            int
	HoleCards        []poker.Card
	StreetBet        int // Committed on the current street
	TotalContributed int // Committed over the whole hand
	Status           SeatStatus
	HasActed         bool // Acted since the betting was last opened or reopened
}

// InHand returns true if the seat has not folded
func (s *Seat) InHand() bool {
	return s.Status != Folded
}

// CanAct returns true if the seat can still make betting decisions
func (s *Seat) CanAct() bool {
	return s.Status == Active
}

// commit moves chips from the stack into the pot
func (s *Seat) commit(amount int) {
	s.Stack -= amount
	s.StreetBet += amount
	s.TotalContributed += amount
	if s.Stack == 0 {
		s.Status = AllInStatus
	}
}
