// Package statistics aggregates simulated hands: table-level counters plus per-policy
// results in big blinds.
package statistics

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
)

// Sample accumulates a series of results in big blinds
type Sample struct {
	N      int
	Sum    float64
	SumSq  float64   // Sum of squares for variance calculation
	Values []float64 // Kept for median and percentiles
}

// Add records one value
func (s *Sample) Add(v float64) {
	s.N++
	s.Sum += v
	s.SumSq += v * v
	s.Values = append(s.Values, v)
}

// Merge folds another sample into this one
func (s *Sample) Merge(o *Sample) {
	s.N += o.N
	s.Sum += o.Sum
	s.SumSq += o.SumSq
	s.Values = append(s.Values, o.Values...)
}

// Mean returns the arithmetic mean
func (s *Sample) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance
func (s *Sample) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.N)*mean*mean) / float64(s.N-1)
}

// StdDev returns the sample standard deviation
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Sample) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Sample) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median value
func (s *Sample) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Sample) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// HandResult is the outcome of one simulated hand
type HandResult struct {
	Pot       int            // Chips committed, in chips
	BigBlind  int            // For converting chips to big blinds
	Showdown  bool           // Reached showdown rather than ending on a fold
	SplitPot  bool           // Some pot layer had more than one winner
	Street    string         // Furthest street reached
	Net       map[string]int // Chips won or lost per policy name
	Actions   int            // Actions applied
	Rebuys    int            // Seats topped up before the hand
	Chips     int            // Chips at the table after the hand
	ChipsPrev int            // Chips at the table before the hand, after rebuys
}

// Statistics tracks a simulation run
type Statistics struct {
	Hands     int
	Showdowns int
	FoldWins  int
	SplitPots int
	Actions   int
	Rebuys    int

	MaxPot   int     // Largest pot observed (in chips)
	MaxPotBB float64 // Largest pot observed (in bb)
	BigPots  int     // Pots >= 50bb

	Streets  map[string]int     // Hands by furthest street reached
	PotBB    Sample             // Pot sizes in big blinds
	ByPolicy map[string]*Sample // Net big blinds per hand, one value per policy per hand
	LedgerBB float64            // Sum of every policy's net, zero when chips are conserved
}

// New returns empty statistics
func New() *Statistics {
	return &Statistics{
		Streets:  make(map[string]int),
		ByPolicy: make(map[string]*Sample),
	}
}

// Add incorporates a hand result
func (s *Statistics) Add(result HandResult) error {
	if result.Chips != result.ChipsPrev {
		return fmt.Errorf("chips not conserved: %d before, %d after", result.ChipsPrev, result.Chips)
	}
	net := 0
	for _, n := range result.Net {
		net += n
	}
	if net != 0 {
		return fmt.Errorf("hand is not zero-sum: net %d", net)
	}

	s.Hands++
	s.Actions += result.Actions
	s.Rebuys += result.Rebuys
	if result.Showdown {
		s.Showdowns++
	} else {
		s.FoldWins++
	}
	if result.SplitPot {
		s.SplitPots++
	}
	s.Streets[result.Street]++

	bb := float64(max(result.BigBlind, 1))
	potBB := float64(result.Pot) / bb
	s.PotBB.Add(potBB)
	if result.Pot > s.MaxPot {
		s.MaxPot = result.Pot
		s.MaxPotBB = potBB
	}
	if potBB >= 50 {
		s.BigPots++
	}

	for _, policy := range slices.Sorted(maps.Keys(result.Net)) {
		sample, ok := s.ByPolicy[policy]
		if !ok {
			sample = &Sample{}
			s.ByPolicy[policy] = sample
		}
		netBB := float64(result.Net[policy]) / bb
		sample.Add(netBB)
		s.LedgerBB += netBB
	}
	return nil
}

// Merge folds another run's statistics into this one
func (s *Statistics) Merge(o *Statistics) {
	s.Hands += o.Hands
	s.Showdowns += o.Showdowns
	s.FoldWins += o.FoldWins
	s.SplitPots += o.SplitPots
	s.Actions += o.Actions
	s.Rebuys += o.Rebuys
	s.BigPots += o.BigPots
	s.LedgerBB += o.LedgerBB
	if o.MaxPot > s.MaxPot {
		s.MaxPot = o.MaxPot
		s.MaxPotBB = o.MaxPotBB
	}
	for street, n := range o.Streets {
		s.Streets[street] += n
	}
	s.PotBB.Merge(&o.PotBB)
	for policy, sample := range o.ByPolicy {
		mine, ok := s.ByPolicy[policy]
		if !ok {
			mine = &Sample{}
			s.ByPolicy[policy] = mine
		}
		mine.Merge(sample)
	}
}

// Policies returns the policy names seen, sorted
func (s *Statistics) Policies() []string {
	return slices.Sorted(maps.Keys(s.ByPolicy))
}

// IsLedgerBalanced checks that no chips were created or destroyed
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.LedgerBB) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: policies net %.6f bb", s.LedgerBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if s.Showdowns+s.FoldWins != s.Hands {
		return fmt.Errorf("showdowns (%d) plus fold wins (%d) does not match hands (%d)",
			s.Showdowns, s.FoldWins, s.Hands)
	}
	if s.SplitPots > s.Showdowns {
		return fmt.Errorf("split pots (%d) exceed showdowns (%d)", s.SplitPots, s.Showdowns)
	}
	if s.PotBB.N != s.Hands {
		return fmt.Errorf("pot sample length (%d) does not match hands count (%d)", s.PotBB.N, s.Hands)
	}
	streets := 0
	for _, n := range s.Streets {
		streets += n
	}
	if streets != s.Hands {
		return fmt.Errorf("street totals (%d) do not match hands count (%d)", streets, s.Hands)
	}
	return nil
}
