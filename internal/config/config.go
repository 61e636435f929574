// Package config loads the server's HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokerrooms/internal/bot"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/internal/room"
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	LogFile        string `hcl:"log_file,optional"`
	MaxRooms       int    `hcl:"max_rooms,optional"`
	HandHistoryDir string `hcl:"hand_history_dir,optional"` // One PHH file per hand, empty disables
}

// TableSettings defines the rules every room is created with
type TableSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
	NextHandDelay string `hcl:"next_hand_delay,optional"`
	BotDelay      string `hcl:"bot_delay,optional"`
	BotPolicy     string `hcl:"bot_policy,optional"`
	AutoStart     *bool  `hcl:"auto_start,optional"`
	RevealFolded  bool   `hcl:"reveal_folded,optional"`
}

// Default returns the default configuration
func Default() *Config {
	autoStart := true
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			MaxRooms: 100,
		},
		Table: &TableSettings{
			SmallBlind:    10,
			BigBlind:      20,
			MaxPlayers:    8,
			StartingChips: 1000,
			ActionTimeout: "30s",
			NextHandDelay: "5s",
			BotDelay:      "1s",
			BotPolicy:     "random",
			AutoStart:     &autoStart,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &cfg, nil
}

// applyDefaults fills anything the file left out
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Table == nil {
		c.Table = def.Table
	}

	s, ds := c.Server, def.Server
	if s.Address == "" {
		s.Address = ds.Address
	}
	if s.Port == 0 {
		s.Port = ds.Port
	}
	if s.LogLevel == "" {
		s.LogLevel = ds.LogLevel
	}
	if s.MaxRooms == 0 {
		s.MaxRooms = ds.MaxRooms
	}

	t, dt := c.Table, def.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = dt.SmallBlind
	}
	if t.BigBlind == 0 {
		t.BigBlind = t.SmallBlind * 2
	}
	if t.MaxPlayers == 0 {
		t.MaxPlayers = dt.MaxPlayers
	}
	if t.StartingChips == 0 {
		t.StartingChips = dt.StartingChips
	}
	if t.ActionTimeout == "" {
		t.ActionTimeout = dt.ActionTimeout
	}
	if t.NextHandDelay == "" {
		t.NextHandDelay = dt.NextHandDelay
	}
	if t.BotDelay == "" {
		t.BotDelay = dt.BotDelay
	}
	if t.BotPolicy == "" {
		t.BotPolicy = dt.BotPolicy
	}
	if t.AutoStart == nil {
		t.AutoStart = dt.AutoStart
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, ok := bot.New(c.Table.BotPolicy, randutil.New(0)); !ok {
		return fmt.Errorf("unknown bot policy %q", c.Table.BotPolicy)
	}
	rc, err := c.Room()
	if err != nil {
		return err
	}
	return rc.Validate()
}

// Room converts the table settings into room rules
func (c *Config) Room() (room.Config, error) {
	t := c.Table
	actionTimeout, err := time.ParseDuration(t.ActionTimeout)
	if err != nil {
		return room.Config{}, fmt.Errorf("action_timeout: %w", err)
	}
	nextHand, err := time.ParseDuration(t.NextHandDelay)
	if err != nil {
		return room.Config{}, fmt.Errorf("next_hand_delay: %w", err)
	}
	botDelay, err := time.ParseDuration(t.BotDelay)
	if err != nil {
		return room.Config{}, fmt.Errorf("bot_delay: %w", err)
	}

	autoStart := true
	if t.AutoStart != nil {
		autoStart = *t.AutoStart
	}
	return room.Config{
		SmallBlind:    t.SmallBlind,
		BigBlind:      t.BigBlind,
		MaxPlayers:    t.MaxPlayers,
		StartingChips: t.StartingChips,
		MaxRooms:      c.Server.MaxRooms,
		ActionTimeout: actionTimeout,
		NextHandDelay: nextHand,
		BotDelay:      botDelay,
		AutoStart:     autoStart,
		RevealFolded:  t.RevealFolded,
	}, nil
}

// Address returns the listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
