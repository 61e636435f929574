package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lox/pokerrooms/cmd/pokerrooms/shared"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/lox/pokerrooms/internal/simulator"
)

// SimulateCmd plays bot-only tables through the hand engine
type SimulateCmd struct {
	Hands      int    `kong:"default='1000',help='Hands per table'"`
	Tables     int    `kong:"default='4',help='Tables to run in parallel'"`
	Seats      int    `kong:"default='6',help='Seats per table'"`
	Policies   string `kong:"default='random,calling,maniac,tight',help='Comma separated bot policies, cycled across seats'"`
	SmallBlind int    `kong:"default='5',help='Small blind amount'"`
	BigBlind   int    `kong:"default='10',help='Big blind amount'"`
	StartChips int    `kong:"default='1000',help='Starting chip count'"`
	Seed       int64  `kong:"default='0',help='RNG seed (0 for random)'"`
	HistoryDir string `kong:"help='Write every hand as a PHH file into this directory'"`
	Debug      bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger, err := shared.SetupLogger("warn", c.Debug)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var policies []string
	for _, p := range strings.Split(c.Policies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			policies = append(policies, p)
		}
	}

	cfg := simulator.Config{
		Hands:         c.Hands,
		Tables:        c.Tables,
		Seats:         c.Seats,
		Policies:      policies,
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		StartingChips: c.StartChips,
		Seed:          seed,
		Logger:        logger,
	}

	if c.HistoryDir != "" {
		sink, err := phh.NewDirSink(c.HistoryDir)
		if err != nil {
			return err
		}
		cfg.History = sink
	}

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()
	stats, err := simulator.New(cfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed (seed %d): %w", seed, err)
	}

	simulator.PrintSummary(os.Stdout, stats, cfg)
	fmt.Printf("\nSeed: %d, elapsed %s\n", seed, time.Since(start).Round(time.Millisecond))
	return nil
}
