// Package phh records finished hands in the Poker Hand History (PHH) TOML format.
package phh

import (
	"strings"
	"time"
)

// HandHistory represents a single poker hand encoded in PHH format.
type HandHistory struct {
	Variant           string   `toml:"variant"`
	Table             string   `toml:"table,omitempty"`
	SeatCount         int      `toml:"seat_count,omitempty"`
	Antes             []int    `toml:"antes"`
	BlindsOrStraddles []int    `toml:"blinds_or_straddles"`
	MinBet            int      `toml:"min_bet"`
	StartingStacks    []int    `toml:"starting_stacks"`
	FinishingStacks   []int    `toml:"finishing_stacks,omitempty"`
	Winnings          []int    `toml:"winnings,omitempty"`
	Actions           []string `toml:"actions"`
	Players           []string `toml:"players,omitempty"`
	HandID            string   `toml:"hand"`
	Time              string   `toml:"time,omitempty"`
	TimeZone          string   `toml:"time_zone,omitempty"`
	Day               int      `toml:"day,omitempty"`
	Month             int      `toml:"month,omitempty"`
	Year              int      `toml:"year,omitempty"`

	Timestamp time.Time `toml:"-"`
}

// Board returns the community cards dealt in the recorded actions
func (h *HandHistory) Board() []string {
	var board []string
	for _, a := range h.Actions {
		if cards, ok := strings.CutPrefix(a, "d db "); ok {
			board = append(board, splitCards(cards)...)
		}
	}
	return board
}

// splitCards splits concatenated PHH card notation ("AsKd7h") into cards
func splitCards(s string) []string {
	var cards []string
	for i := 0; i+1 < len(s); i += 2 {
		cards = append(cards, s[i:i+2])
	}
	return cards
}
