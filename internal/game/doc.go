// Package game implements a single hand of no-limit Texas Hold'em.
//
// The main type is HandState, which seats players, rotates the dealer, posts blinds,
// validates and applies betting actions, deals the board and settles main and side pots.
//
// # Basic Usage
//
//	h := game.NewHand(rng, 10, 20)
//	if err := h.StartHand(seats); err != nil {
//	    return err
//	}
//	for !h.Finished {
//	    seat := h.ActingSeat()
//	    if err := h.ApplyAction(seat.ID, decide(h.PublicView())); err != nil {
//	        // rejected actions leave the hand untouched; ask again
//	    }
//	}
//
// # Deterministic Testing
//
// Pass a seeded RNG from randutil.New, or a pre-arranged deck via WithDeck. Hole cards are
// dealt two at a time in seat order, then the flop, turn and river with no burn cards.
//
// # Chip Accounting
//
// Every chip a seat commits is tracked in TotalContributed. At showdown the contributions
// are layered at each all-in level into PotLayers, and the sum of payouts always equals
// the sum of contributions.
package game
