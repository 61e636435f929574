package poker

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidHandSize is returned when evaluating fewer than 5 or more than 7 cards
var ErrInvalidHandSize = errors.New("hand must contain 5 to 7 cards")

// Category enumerates the poker hand categories ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case Trips:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case Quads:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the value of the best five-card hand. Tiebreak holds the deciding ranks in
// descending significance; unused trailing slots are zero.
type HandRank struct {
	Category Category
	Tiebreak [5]Rank
}

// String describes the hand, e.g. "Two Pair, Kings and Sevens".
func (hr HandRank) String() string {
	t := hr.Tiebreak
	switch hr.Category {
	case HighCard:
		return fmt.Sprintf("High Card, %s", t[0].Name())
	case Pair:
		return fmt.Sprintf("Pair of %s", t[0].plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", t[0].plural(), t[1].plural())
	case Trips:
		return fmt.Sprintf("Three of a Kind, %s", t[0].plural())
	case Straight:
		return fmt.Sprintf("Straight, %s high", t[0].Name())
	case Flush:
		return fmt.Sprintf("Flush, %s high", t[0].Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", t[0].plural(), t[1].plural())
	case Quads:
		return fmt.Sprintf("Four of a Kind, %s", t[0].plural())
	case StraightFlush:
		if t[0] == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s high", t[0].Name())
	default:
		return "Unknown"
	}
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 for a tie.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := range a.Tiebreak {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			if a.Tiebreak[i] > b.Tiebreak[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// MustEvaluate is Evaluate for callers that have already guaranteed 5 to 7 cards.
// It panics on misuse.
func MustEvaluate(cards ...Card) HandRank {
	hr, err := Evaluate(cards...)
	if err != nil {
		panic(err)
	}
	return hr
}

// Evaluate finds the best five-card hand among 5 to 7 cards.
func Evaluate(cards ...Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("%w: got %d", ErrInvalidHandSize, len(cards))
	}

	var counts [Ace + 1]int
	var suitMasks [4]uint16
	var rankMask uint16
	for _, c := range cards {
		if !c.Valid() {
			return HandRank{}, fmt.Errorf("invalid card %d/%d", c.Rank, c.Suit)
		}
		counts[c.Rank]++
		suitMasks[c.Suit] |= 1 << c.Rank
		rankMask |= 1 << c.Rank
	}

	// Only one suit can hold five or more of seven cards
	flushMask := uint16(0)
	for _, mask := range suitMasks {
		if bits.OnesCount16(mask) >= 5 {
			flushMask = mask
			break
		}
	}

	if flushMask != 0 {
		if high := straightHigh(flushMask); high > 0 {
			return HandRank{Category: StraightFlush, Tiebreak: [5]Rank{high}}, nil
		}
	}

	// Group ranks by multiplicity, each list descending
	var quads, trips, pairs, singles []Rank
	for r := Ace; r >= Two; r-- {
		switch counts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		case 1:
			singles = append(singles, r)
		}
	}

	if len(quads) > 0 {
		kicker := topRanks(rankMask&^(1<<quads[0]), 1)
		return HandRank{Category: Quads, Tiebreak: [5]Rank{quads[0], kicker[0]}}, nil
	}

	if len(trips) > 0 {
		// A second set of trips plays as the pair
		var pairRank Rank
		if len(trips) > 1 {
			pairRank = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pairRank {
			pairRank = pairs[0]
		}
		if pairRank != 0 {
			return HandRank{Category: FullHouse, Tiebreak: [5]Rank{trips[0], pairRank}}, nil
		}
	}

	if flushMask != 0 {
		var tb [5]Rank
		copy(tb[:], topRanks(flushMask, 5))
		return HandRank{Category: Flush, Tiebreak: tb}, nil
	}

	if high := straightHigh(rankMask); high > 0 {
		return HandRank{Category: Straight, Tiebreak: [5]Rank{high}}, nil
	}

	if len(trips) > 0 {
		kickers := topRanks(rankMask&^(1<<trips[0]), 2)
		return HandRank{Category: Trips, Tiebreak: [5]Rank{trips[0], kickers[0], kickers[1]}}, nil
	}

	if len(pairs) >= 2 {
		kicker := topRanks(rankMask&^(1<<pairs[0])&^(1<<pairs[1]), 1)
		return HandRank{Category: TwoPair, Tiebreak: [5]Rank{pairs[0], pairs[1], kicker[0]}}, nil
	}

	if len(pairs) == 1 {
		kickers := topRanks(rankMask&^(1<<pairs[0]), 3)
		return HandRank{Category: Pair, Tiebreak: [5]Rank{pairs[0], kickers[0], kickers[1], kickers[2]}}, nil
	}

	var tb [5]Rank
	copy(tb[:], singles[:5])
	return HandRank{Category: HighCard, Tiebreak: tb}, nil
}

const wheelMask = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five

// straightHigh returns the high card of the best straight in mask, Five for the wheel,
// or 0 when there is none.
func straightHigh(mask uint16) Rank {
	for high := Ace; high >= Six; high-- {
		run := uint16(0x1F) << (high - 4)
		if mask&run == run {
			return high
		}
	}
	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}

// topRanks returns the n highest ranks present in mask, descending.
func topRanks(mask uint16, n int) []Rank {
	out := make([]Rank, 0, n)
	for len(out) < n && mask != 0 {
		top := Rank(bits.Len16(mask) - 1)
		out = append(out, top)
		mask &^= 1 << top
	}
	for len(out) < n {
		out = append(out, 0)
	}
	return out
}
