package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerrooms/poker"
)

// HandOption configures a HandState during creation.
type HandOption func(*handConfig)

// handConfig holds the optional configuration for a hand.
type handConfig struct {
	deck           *poker.Deck
	previousDealer string
	revealFolded   bool
	logger         *log.Logger
}

// NewHand creates a hand with the given blinds. The RNG is required so that
// shuffles are explicit and tests can replay a hand exactly.
//
// Example usage:
//
//	rng := randutil.New(42)
//	h := game.NewHand(rng, 10, 20, game.WithPreviousDealer(lastDealer))
//	err := h.StartHand([]game.SeatConfig{
//	    {ID: "a", Name: "Alice", Chips: 1000},
//	    {ID: "b", Name: "Bob", Chips: 1000},
//	})
func NewHand(rng *rand.Rand, smallBlind, bigBlind int, opts ...HandOption) *HandState {
	if rng == nil {
		panic("rng is required for hand creation")
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		panic("blinds must satisfy 0 < small blind <= big blind")
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	deck := cfg.deck
	if deck == nil {
		deck = poker.NewDeck(rng)
	}
	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &HandState{
		ActingIndex:    -1,
		LastAggressor:  -1,
		smallBlind:     smallBlind,
		bigBlind:       bigBlind,
		deck:           deck,
		previousDealer: cfg.previousDealer,
		revealFolded:   cfg.revealFolded,
		logger:         logger,
	}
}

// WithDeck sets a specific pre-arranged deck. The deck is dealt as-is, without shuffling.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithPreviousDealer rotates the dealer button one eligible seat past the given seat ID.
func WithPreviousDealer(seatID string) HandOption {
	return func(c *handConfig) {
		c.previousDealer = seatID
	}
}

// WithRevealFolded shows folded seats' hole cards in the public view once the hand ends.
func WithRevealFolded(reveal bool) HandOption {
	return func(c *handConfig) {
		c.revealFolded = reveal
	}
}

// WithLogger sets the logger for hand progress. Defaults to discarding output.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		c.logger = logger
	}
}
