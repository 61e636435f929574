package game

import (
	"slices"

	"github.com/lox/pokerrooms/poker"
)

// showdown evaluates every non-folded seat and awards each pot layer
func (h *HandState) showdown() {
	h.Stage = Showdown
	h.ShowdownReached = true

	h.ranks = make(map[string]poker.HandRank)
	for _, s := range h.Seats {
		if !s.InHand() {
			continue
		}
		cards := append(slices.Clone(s.HoleCards), h.Community...)
		h.ranks[s.ID] = poker.MustEvaluate(cards...)
	}

	h.Pots = buildPots(h.Seats)
	won := make(map[int]int)
	for i := range h.Pots {
		layer := &h.Pots[i]
		winners := h.bestOf(layer.Eligible)
		for idx, amount := range splitPot(layer.Amount, winners) {
			won[idx] += amount
		}
		for _, idx := range winners {
			layer.Winners = append(layer.Winners, h.Seats[idx].ID)
		}
	}

	h.settle(won)
	for _, p := range h.Winners {
		h.logger.Info("Showdown winner", "seat", p.SeatID, "amount", p.Amount, "hand", p.Hand)
	}
}

// bestOf returns the seat indices holding the best hand among ids, ordered from the seat
// after the dealer
func (h *HandState) bestOf(ids []string) []int {
	var best []int
	var bestRank poker.HandRank
	for _, idx := range h.payoutOrder() {
		s := h.Seats[idx]
		if !slices.Contains(ids, s.ID) {
			continue
		}
		rank := h.ranks[s.ID]
		switch {
		case len(best) == 0 || poker.Compare(rank, bestRank) > 0:
			best = []int{idx}
			bestRank = rank
		case poker.Compare(rank, bestRank) == 0:
			best = append(best, idx)
		}
	}
	return best
}

// finishUncontested gives the whole pot to the last seat standing, without showing cards
func (h *HandState) finishUncontested() {
	winner := -1
	for i, s := range h.Seats {
		if s.InHand() {
			winner = i
			break
		}
	}

	total := h.Pot()
	h.Pots = []PotLayer{{
		Amount:   total,
		Eligible: []string{h.Seats[winner].ID},
		Winners:  []string{h.Seats[winner].ID},
	}}
	h.settle(map[int]int{winner: total})
	h.logger.Info("Uncontested winner", "seat", h.Seats[winner].ID, "amount", total)
}

// settle credits winnings and closes the hand
func (h *HandState) settle(won map[int]int) {
	h.Winners = nil
	for i, s := range h.Seats {
		amount, ok := won[i]
		if !ok || amount == 0 {
			continue
		}
		s.Stack += amount
		payout := Payout{SeatID: s.ID, Name: s.Name, Amount: amount}
		if rank, ok := h.ranks[s.ID]; ok {
			payout.Hand = rank.String()
		}
		h.Winners = append(h.Winners, payout)
	}

	h.Stage = Finished
	h.Finished = true
	h.ActingIndex = -1
}

// payoutOrder lists seat indices clockwise starting after the dealer
func (h *HandState) payoutOrder() []int {
	n := len(h.Seats)
	order := make([]int, n)
	for i := range n {
		order[i] = (h.DealerIndex + 1 + i) % n
	}
	return order
}
