package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerrooms/poker"
)

// HandState represents the state of a poker hand
type HandState struct {
	Seats           []*Seat
	DealerIndex     int
	SmallBlindIndex int
	BigBlindIndex   int
	Stage           Stage
	Community       []poker.Card
	CurrentBet      int // Highest street commitment the acting seat must match
	MinRaise        int // Minimum legal raise increment
	ActingIndex     int // -1 when nobody is to act
	LastAggressor   int // -1 when the street has no bet
	Pots            []PotLayer
	Winners         []Payout
	Finished        bool
	ShowdownReached bool

	smallBlind     int
	bigBlind       int
	reopenLevel    int // Street commitment of the last full bet or raise
	deck           *poker.Deck
	previousDealer string
	revealFolded   bool
	started        bool
	ranks          map[string]poker.HandRank
	logger         *log.Logger
}

// SmallBlind returns the configured small blind
func (h *HandState) SmallBlind() int { return h.smallBlind }

// BigBlind returns the configured big blind
func (h *HandState) BigBlind() int { return h.bigBlind }

// StartHand seats the players that have chips, rotates the dealer, deals hole cards and
// posts blinds. Seats with zero chips are skipped.
func (h *HandState) StartHand(seats []SeatConfig) error {
	if h.started {
		return ErrHandStarted
	}

	seen := make(map[string]bool, len(seats))
	var eligible []SeatConfig
	for _, sc := range seats {
		if seen[sc.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSeat, sc.ID)
		}
		seen[sc.ID] = true
		if sc.Chips > 0 {
			eligible = append(eligible, sc)
		}
	}
	if len(eligible) < 2 {
		return fmt.Errorf("%w: %d of %d seats can play", ErrNotEnoughPlayers, len(eligible), len(seats))
	}

	h.Seats = make([]*Seat, len(eligible))
	for i, sc := range eligible {
		h.Seats[i] = &Seat{ID: sc.ID, Name: sc.Name, Stack: sc.Chips}
	}

	n := len(h.Seats)
	h.DealerIndex = h.rotateDealer(seats)
	h.SmallBlindIndex = (h.DealerIndex + 1) % n
	h.BigBlindIndex = (h.DealerIndex + 2) % n

	for _, s := range h.Seats {
		cards, err := h.deck.Deal(2)
		if err != nil {
			return fmt.Errorf("dealing hole cards: %w", err)
		}
		s.HoleCards = cards
	}

	h.post(h.SmallBlindIndex, h.smallBlind)
	h.post(h.BigBlindIndex, h.bigBlind)

	h.started = true
	h.Stage = Preflop
	h.CurrentBet = h.bigBlind
	h.MinRaise = h.bigBlind
	h.reopenLevel = h.bigBlind
	h.LastAggressor = -1

	h.logger.Debug("Hand started",
		"seats", n,
		"dealer", h.Seats[h.DealerIndex].ID,
		"small_blind", h.Seats[h.SmallBlindIndex].ID,
		"big_blind", h.Seats[h.BigBlindIndex].ID)

	if h.roundComplete() {
		// Blinds put everyone but one seat all-in
		h.endStreet()
		return nil
	}
	h.ActingIndex = h.nextToAct(h.BigBlindIndex)
	return nil
}

// rotateDealer picks the first eligible seat after the previous dealer, walking the full
// seat list so a busted previous dealer still passes the button along.
func (h *HandState) rotateDealer(all []SeatConfig) int {
	if h.previousDealer == "" {
		return 0
	}
	pos := -1
	for i, sc := range all {
		if sc.ID == h.previousDealer {
			pos = i
			break
		}
	}
	if pos < 0 {
		return 0
	}
	for i := 1; i <= len(all); i++ {
		sc := all[(pos+i)%len(all)]
		if sc.Chips > 0 {
			return h.seatIndex(sc.ID)
		}
	}
	return 0
}

// post commits a blind, capped at the seat's stack
func (h *HandState) post(idx, amount int) {
	s := h.Seats[idx]
	s.commit(min(amount, s.Stack))
}

// ApplyAction validates and applies an action for the acting seat. A rejected action
// leaves the hand unchanged.
func (h *HandState) ApplyAction(seatID string, a Action) error {
	if !h.started {
		return ErrHandNotStarted
	}
	if h.Finished {
		return ErrHandFinished
	}
	idx := h.seatIndex(seatID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	if idx != h.ActingIndex {
		return fmt.Errorf("%w: waiting on %s", ErrNotYourTurn, h.Seats[h.ActingIndex].ID)
	}

	seat := h.Seats[idx]
	m, err := h.plan(seat, a)
	if err != nil {
		return err
	}

	if m.fold {
		seat.Status = Folded
	} else if m.commit > 0 {
		seat.commit(m.commit)
		if seat.StreetBet > h.CurrentBet {
			h.raiseTo(idx, seat.StreetBet)
		}
	}
	seat.HasActed = true

	h.logger.Debug("Action applied",
		"stage", h.Stage,
		"seat", seat.ID,
		"action", a,
		"stack", seat.Stack,
		"current_bet", h.CurrentBet)

	if h.inHandCount() == 1 {
		h.finishUncontested()
		return nil
	}
	if h.roundComplete() {
		h.endStreet()
		return nil
	}
	h.ActingIndex = h.nextToAct(idx)
	return nil
}

// endStreet closes the betting round and moves to the next street, running the board out
// once fewer than two seats can still bet.
func (h *HandState) endStreet() {
	for _, s := range h.Seats {
		s.StreetBet = 0
		s.HasActed = false
	}
	h.CurrentBet = 0
	h.MinRaise = h.bigBlind
	h.reopenLevel = 0
	h.LastAggressor = -1
	h.ActingIndex = -1

	if h.activeCount() < 2 {
		h.runOut()
		return
	}
	if h.Stage == River {
		h.showdown()
		return
	}

	h.Stage++
	h.dealCommunity()
	h.logger.Debug("Street dealt", "stage", h.Stage, "board", poker.FormatCards(h.Community))

	h.ActingIndex = h.nextToAct(h.DealerIndex)
}

// runOut deals the remaining board without further betting and goes to showdown
func (h *HandState) runOut() {
	for h.Stage < River {
		h.Stage++
		h.dealCommunity()
	}
	h.logger.Debug("Board run out", "board", poker.FormatCards(h.Community))
	h.showdown()
}

// dealCommunity fills the board up to the size the current stage requires
func (h *HandState) dealCommunity() {
	want := map[Stage]int{Flop: 3, Turn: 4, River: 5}[h.Stage]
	for len(h.Community) < want {
		card, err := h.deck.Draw()
		if err != nil {
			// 52 cards always cover 9 seats and a full board
			panic(fmt.Sprintf("deck exhausted dealing %s: %v", h.Stage, err))
		}
		h.Community = append(h.Community, card)
	}
}

// Pot returns every chip committed this hand
func (h *HandState) Pot() int {
	total := 0
	for _, s := range h.Seats {
		total += s.TotalContributed
	}
	return total
}

// Seat returns the seat with the given ID
func (h *HandState) Seat(id string) (*Seat, bool) {
	idx := h.seatIndex(id)
	if idx < 0 {
		return nil, false
	}
	return h.Seats[idx], true
}

// ActingSeat returns the seat to act, or nil when nobody is
func (h *HandState) ActingSeat() *Seat {
	if h.ActingIndex < 0 || h.Finished {
		return nil
	}
	return h.Seats[h.ActingIndex]
}

// Dealer returns the dealer seat's ID
func (h *HandState) Dealer() string {
	if len(h.Seats) == 0 {
		return ""
	}
	return h.Seats[h.DealerIndex].ID
}

// Rank returns the evaluated hand for a seat that reached showdown
func (h *HandState) Rank(id string) (poker.HandRank, bool) {
	r, ok := h.ranks[id]
	return r, ok
}

func (h *HandState) seatIndex(id string) int {
	for i, s := range h.Seats {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (h *HandState) inHandCount() int {
	count := 0
	for _, s := range h.Seats {
		if s.InHand() {
			count++
		}
	}
	return count
}

func (h *HandState) activeCount() int {
	count := 0
	for _, s := range h.Seats {
		if s.CanAct() {
			count++
		}
	}
	return count
}
