package game

import (
	"slices"
)

// PotLayer is one tier of the pot. Only seats that contributed up to the tier's level
// and did not fold can win it.
type PotLayer struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
	Winners  []string `json:"winners,omitempty"`
}

// Payout is what a seat collected when the hand settled
type Payout struct {
	SeatID string `json:"seatId"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Hand   string `json:"hand,omitempty"`
}

// buildPots splits total contributions into layers at each distinct contribution level of
// the non-folded seats. Folded chips fill the layers they reached; anything a folded seat
// put in above the top level is dead money for the top layer.
func buildPots(seats []*Seat) []PotLayer {
	var levels []int
	for _, s := range seats {
		if s.InHand() && s.TotalContributed > 0 {
			levels = append(levels, s.TotalContributed)
		}
	}
	slices.Sort(levels)
	levels = slices.Compact(levels)

	if len(levels) == 0 {
		layer := PotLayer{}
		for _, s := range seats {
			layer.Amount += s.TotalContributed
			if s.InHand() {
				layer.Eligible = append(layer.Eligible, s.ID)
			}
		}
		return []PotLayer{layer}
	}

	pots := make([]PotLayer, 0, len(levels))
	prev := 0
	for _, level := range levels {
		layer := PotLayer{}
		for _, s := range seats {
			if slice := min(s.TotalContributed, level) - prev; slice > 0 {
				layer.Amount += slice
			}
			if s.InHand() && s.TotalContributed >= level {
				layer.Eligible = append(layer.Eligible, s.ID)
			}
		}
		pots = append(pots, layer)
		prev = level
	}

	for _, s := range seats {
		if s.TotalContributed > prev {
			pots[len(pots)-1].Amount += s.TotalContributed - prev
		}
	}
	return pots
}

// splitPot divides amount among winners, already in payout order. The first winner
// takes any odd chips.
func splitPot(amount int, winners []int) map[int]int {
	shares := make(map[int]int, len(winners))
	if len(winners) == 0 {
		return shares
	}
	share := amount / len(winners)
	for _, w := range winners {
		shares[w] = share
	}
	shares[winners[0]] += amount % len(winners)
	return shares
}
