package simulator

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Hands = 200
	cfg.Tables = 3
	cfg.Seed = 12345
	cfg.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
	return cfg
}

func TestNew(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	sim := New(cfg)
	require.NotNil(t, sim)
	assert.Equal(t, 200, sim.config.Hands)
	assert.Equal(t, int64(12345), sim.config.Seed)

	// A nil logger is replaced with a discarding one
	cfg.Logger = nil
	assert.NotNil(t, New(cfg).logger)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no hands", mutate: func(c *Config) { c.Hands = 0 }},
		{name: "no tables", mutate: func(c *Config) { c.Tables = 0 }},
		{name: "one seat", mutate: func(c *Config) { c.Seats = 1 }},
		{name: "too many seats", mutate: func(c *Config) { c.Seats = 11 }},
		{name: "inverted blinds", mutate: func(c *Config) { c.SmallBlind, c.BigBlind = 10, 5 }},
		{name: "short stacks", mutate: func(c *Config) { c.StartingChips = 5 }},
		{name: "unknown policy", mutate: func(c *Config) { c.Policies = []string{"random", "gto"} }},
	}

	require.NoError(t, testConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

			_, err := New(cfg).Run(t.Context())
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestRun_MixedPolicies(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	stats, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, cfg.Hands*cfg.Tables, stats.Hands)
	assert.Equal(t, []string{"calling", "maniac", "random", "tight"}, stats.Policies())
	assert.True(t, stats.IsLedgerBalanced())
	assert.NoError(t, stats.Validate())
	assert.Positive(t, stats.Showdowns)
	assert.Positive(t, stats.FoldWins)
	// Maniacs shove often enough that someone goes broke
	assert.Positive(t, stats.Rebuys)
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Hands = 50

	a, err := New(cfg).Run(t.Context())
	require.NoError(t, err)
	b, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, a.Showdowns, b.Showdowns)
	assert.Equal(t, a.Actions, b.Actions)
	assert.Equal(t, a.PotBB.Values, b.PotBB.Values)
}

func TestRun_HeadsUpCallingStations(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Seats = 2
	cfg.Tables = 1
	cfg.Hands = 100
	cfg.Policies = []string{"calling"}

	stats, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	// Two calling stations check every street down, so every hand is shown down on the river
	assert.Equal(t, 100, stats.Showdowns)
	assert.Equal(t, 100, stats.Streets["river"])
	assert.Zero(t, stats.FoldWins)
	assert.InDelta(t, 0.0, stats.ByPolicy["calling"].Mean(), 1e-9)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := New(testConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Hands = 20

	stats, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, cfg)
	out := buf.String()
	assert.Contains(t, out, "=== FINAL RESULTS: 3 tables x 20 hands, 6-handed 5/10 ===")
	assert.Contains(t, out, "Hands played: 60")
	assert.Contains(t, out, "maniac")
	assert.Contains(t, out, "(balanced)")
}

func TestStreetReached(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "preflop", streetReached(0, false))
	assert.Equal(t, "flop", streetReached(3, false))
	assert.Equal(t, "turn", streetReached(4, false))
	assert.Equal(t, "river", streetReached(5, true))
}

func TestRun_WritesHandHistory(t *testing.T) {
	t.Parallel()
	sink, err := phh.NewDirSink(t.TempDir())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Tables = 2
	cfg.Hands = 5
	cfg.History = sink

	_, err = New(cfg).Run(t.Context())
	require.NoError(t, err)

	entries, err := os.ReadDir(sink.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 10)

	hand, err := phh.DecodeFile(sink.Path("table2-hand000005"))
	require.NoError(t, err)
	assert.Equal(t, phh.Variant, hand.Variant)
	assert.Len(t, hand.Players, cfg.Seats)

	won := 0
	for _, w := range hand.Winnings {
		won += w
	}
	assert.Positive(t, won)
}
