package main

import (
	"fmt"

	"github.com/lox/pokerrooms/cmd/pokerrooms/shared"
	"github.com/lox/pokerrooms/internal/config"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/lox/pokerrooms/internal/server"
)

// ServerCmd runs the websocket room server
type ServerCmd struct {
	Config string `kong:"short='c',default='pokerrooms.hcl',help='HCL config file (defaults apply when missing)'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for decks, bots and room codes (optional)'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, c.Debug)
	if err != nil {
		return err
	}
	if cfg.Server.LogFile != "" {
		fileLogger, closer, err := shared.SetupFileLogger(cfg.Server.LogFile, cfg.Server.LogLevel, c.Debug)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = fileLogger
	}

	rc, err := cfg.Room()
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithBotPolicy(cfg.Table.BotPolicy)}
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		opts = append(opts, server.WithManagerOptions(room.WithRNG(randutil.New(*c.Seed))))
	}

	if dir := cfg.Server.HandHistoryDir; dir != "" {
		sink, err := phh.NewDirSink(dir)
		if err != nil {
			return err
		}
		logger.Info("Recording hand histories", "dir", dir)
		opts = append(opts, server.WithManagerOptions(room.WithHistory(sink)))
	}

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	s := server.NewServer(rc, logger, opts...)
	logger.Info("Starting pokerrooms server",
		"address", addr,
		"small_blind", rc.SmallBlind,
		"big_blind", rc.BigBlind,
		"max_players", rc.MaxPlayers,
		"starting_chips", rc.StartingChips,
		"action_timeout", rc.ActionTimeout,
		"auto_start", rc.AutoStart)

	ctx := shared.SetupSignalHandler(logger)
	if err := s.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
