// Package simulator plays bot-only tables through the hand engine to measure policies
// and to check that every hand conserves chips.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerrooms/internal/bot"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// maxActionsPerHand bounds a hand so a broken policy cannot spin forever
const maxActionsPerHand = 500

var (
	ErrInvalidConfig = errors.New("invalid simulation config")
	ErrStuckHand     = errors.New("hand did not finish")
)

// Config holds configuration for running simulations
type Config struct {
	Hands         int      // Hands per table
	Tables        int      // Tables run in parallel
	Seats         int      // Seats per table
	Policies      []string // Policy per seat, cycled when shorter than Seats
	SmallBlind    int
	BigBlind      int
	StartingChips int
	Seed          int64
	History       phh.Sink // Optional, receives every hand
	Logger        *log.Logger
}

// DefaultConfig returns a six-handed table of mixed bots at 5/10 with 100bb stacks
func DefaultConfig() Config {
	return Config{
		Hands:         1000,
		Tables:        4,
		Seats:         6,
		Policies:      []string{"random", "calling", "maniac", "tight"},
		SmallBlind:    5,
		BigBlind:      10,
		StartingChips: 1000,
		Seed:          1,
	}
}

// Validate checks the config can run
func (c Config) Validate() error {
	switch {
	case c.Hands < 1:
		return fmt.Errorf("%w: hands must be positive", ErrInvalidConfig)
	case c.Tables < 1:
		return fmt.Errorf("%w: tables must be positive", ErrInvalidConfig)
	case c.Seats < 2 || c.Seats > 10:
		return fmt.Errorf("%w: seats must be between 2 and 10", ErrInvalidConfig)
	case c.SmallBlind < 1 || c.BigBlind < c.SmallBlind:
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidConfig, c.SmallBlind, c.BigBlind)
	case c.StartingChips < c.BigBlind:
		return fmt.Errorf("%w: starting chips must cover the big blind", ErrInvalidConfig)
	}
	for _, p := range c.policies() {
		if _, ok := bot.New(p, randutil.New(0)); !ok {
			return fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, p)
		}
	}
	return nil
}

func (c Config) policies() []string {
	if len(c.Policies) == 0 {
		return []string{"random"}
	}
	return c.Policies
}

// Simulator runs poker hand simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// Run plays every table and returns the merged statistics
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	results := make([]*statistics.Statistics, s.config.Tables)
	g, ctx := errgroup.WithContext(ctx)
	for table := range s.config.Tables {
		// Each table gets its own seed so results do not depend on scheduling
		seed := s.config.Seed + int64(table)*7919
		g.Go(func() error {
			stats, err := s.runTable(ctx, table, seed)
			if err != nil {
				return fmt.Errorf("table %d: %w", table, err)
			}
			results[table] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := statistics.New()
	for _, stats := range results {
		total.Merge(stats)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return total, nil
}

// player is one seat at a simulated table
type player struct {
	id     string
	policy bot.Policy
	chips  int
}

func (s *Simulator) runTable(ctx context.Context, table int, seed int64) (*statistics.Statistics, error) {
	cfg := s.config
	rng := randutil.New(seed)
	logger := s.logger.With("table", table)

	names := cfg.policies()
	players := make([]*player, cfg.Seats)
	for i := range players {
		policy, _ := bot.New(names[i%len(names)], randutil.Derive(rng))
		players[i] = &player{
			id:     fmt.Sprintf("seat-%d", i+1),
			policy: policy,
			chips:  cfg.StartingChips,
		}
	}

	stats := statistics.New()
	dealer := ""
	for n := range cfg.Hands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rebuys := 0
		for _, p := range players {
			if p.chips < cfg.BigBlind {
				p.chips = cfg.StartingChips
				rebuys++
			}
		}

		handID := fmt.Sprintf("table%d-hand%06d", table+1, n+1)
		result, err := s.playHand(rng, handID, players, dealer)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", n+1, err)
		}
		result.Rebuys = rebuys
		if err := stats.Add(result.HandResult); err != nil {
			return nil, fmt.Errorf("hand %d: %w", n+1, err)
		}
		dealer = result.dealer
	}

	logger.Debug("Table finished", "hands", stats.Hands, "showdowns", stats.Showdowns)
	return stats, nil
}

type handOutcome struct {
	statistics.HandResult
	dealer string
}

// playHand deals one hand, lets every policy act until it finishes and carries the
// stacks back to the players
func (s *Simulator) playHand(rng *rand.Rand, handID string, players []*player, dealer string) (handOutcome, error) {
	cfg := s.config
	hand := game.NewHand(randutil.Derive(rng), cfg.SmallBlind, cfg.BigBlind,
		game.WithPreviousDealer(dealer),
		game.WithLogger(s.logger))

	seats := make([]game.SeatConfig, len(players))
	before := 0
	byID := make(map[string]*player, len(players))
	for i, p := range players {
		seats[i] = game.SeatConfig{ID: p.id, Name: p.policy.Name(), Chips: p.chips}
		before += p.chips
		byID[p.id] = p
	}
	if err := hand.StartHand(seats); err != nil {
		return handOutcome{}, err
	}
	var rec *phh.Recorder
	if cfg.History != nil {
		rec = phh.NewRecorder(handID, "simulator", hand, time.Now())
	}

	actions := 0
	for seat := hand.ActingSeat(); seat != nil; seat = hand.ActingSeat() {
		if actions >= maxActionsPerHand {
			return handOutcome{}, fmt.Errorf("%w after %d actions", ErrStuckHand, actions)
		}
		opts, err := hand.Options(seat.ID)
		if err != nil {
			return handOutcome{}, err
		}
		p := byID[seat.ID]
		d := p.policy.Decide(bot.Situation{View: hand.PublicView(), HoleCards: seat.HoleCards, Options: opts})
		if err := hand.ApplyAction(seat.ID, d.Action); err != nil {
			return handOutcome{}, fmt.Errorf("%s chose %s: %w", p.policy.Name(), d.Action, err)
		}
		if rec != nil {
			rec.Record(seat.ID, d.Action.Kind, hand)
		}
		actions++
	}
	if !hand.Finished {
		return handOutcome{}, ErrStuckHand
	}

	pot := hand.Pot()
	paid := 0
	for _, w := range hand.Winners {
		paid += w.Amount
	}
	if paid != pot {
		return handOutcome{}, fmt.Errorf("paid %d of a %d pot", paid, pot)
	}
	if rec != nil {
		if err := cfg.History.WriteHand(rec.Finish(hand)); err != nil {
			return handOutcome{}, fmt.Errorf("writing hand history: %w", err)
		}
	}

	result := statistics.HandResult{
		Pot:       pot,
		BigBlind:  cfg.BigBlind,
		Showdown:  hand.ShowdownReached,
		Street:    streetReached(len(hand.Community), hand.ShowdownReached),
		Net:       make(map[string]int),
		Actions:   actions,
		ChipsPrev: before,
	}
	for _, layer := range hand.Pots {
		if len(layer.Winners) > 1 {
			result.SplitPot = true
		}
	}
	for _, seat := range hand.Seats {
		p := byID[seat.ID]
		result.Net[p.policy.Name()] += seat.Stack - p.chips
		p.chips = seat.Stack
	}
	for _, p := range players {
		result.Chips += p.chips
	}
	return handOutcome{HandResult: result, dealer: hand.Dealer()}, nil
}

// streetReached names the last street dealt. A showdown with a run-out board counts
// as the river even when every seat was all-in before it.
func streetReached(community int, showdown bool) string {
	switch {
	case community >= 5:
		return game.River.String()
	case community == 4:
		return game.Turn.String()
	case community == 3:
		return game.Flop.String()
	case showdown:
		return game.Showdown.String()
	default:
		return game.Preflop.String()
	}
}

// PrintSummary writes a human readable report of a run
func PrintSummary(w io.Writer, stats *statistics.Statistics, cfg Config) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS: %d tables x %d hands, %d-handed %d/%d ===\n",
		cfg.Tables, cfg.Hands, cfg.Seats, cfg.SmallBlind, cfg.BigBlind)
	fmt.Fprintf(w, "Hands played: %d (%d actions, %d rebuys)\n", stats.Hands, stats.Actions, stats.Rebuys)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Showdowns: %d (%.1f%%), won without showdown: %d (%.1f%%)\n",
		stats.Showdowns, pct(stats.Showdowns, stats.Hands), stats.FoldWins, pct(stats.FoldWins, stats.Hands))
	fmt.Fprintf(w, "Split pots: %d\n", stats.SplitPots)
	for _, street := range []game.Stage{game.Preflop, game.Flop, game.Turn, game.River, game.Showdown} {
		if n := stats.Streets[street.String()]; n > 0 {
			fmt.Fprintf(w, "Ended by %-8s %d hands (%.1f%%)\n", street.String()+":", n, pct(n, stats.Hands))
		}
	}

	fmt.Fprintf(w, "\n=== POT SIZE ANALYSIS ===\n")
	fmt.Fprintf(w, "Mean pot: %.2f bb, median %.2f bb, P95 %.2f bb\n",
		stats.PotBB.Mean(), stats.PotBB.Median(), stats.PotBB.Percentile(0.95))
	fmt.Fprintf(w, "Max pot observed: %d chips (%.1f bb)\n", stats.MaxPot, stats.MaxPotBB)
	fmt.Fprintf(w, "Big pots (>=50bb): %d hands (%.1f%%)\n", stats.BigPots, pct(stats.BigPots, stats.Hands))

	fmt.Fprintf(w, "\n=== POLICY RESULTS ===\n")
	for _, name := range stats.Policies() {
		sample := stats.ByPolicy[name]
		low, high := sample.ConfidenceInterval95()
		fmt.Fprintf(w, "%-10s %8.4f bb/hand  sd %.3f  95%% CI [%.4f, %.4f]\n",
			name, sample.Mean(), sample.StdDev(), low, high)
	}
	fmt.Fprintf(w, "Ledger: %+.6f bb (%s)\n", stats.LedgerBB, balanced(stats.IsLedgerBalanced()))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func balanced(ok bool) string {
	if ok {
		return "balanced"
	}
	return "UNBALANCED"
}
