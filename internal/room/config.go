package room

import (
	"fmt"
	"time"
)

// Config holds the table rules and pacing shared by every room a Manager creates
type Config struct {
	SmallBlind    int
	BigBlind      int
	MaxPlayers    int
	StartingChips int
	MaxRooms      int
	ActionTimeout time.Duration // Zero disables auto-fold
	NextHandDelay time.Duration
	BotDelay      time.Duration
	AutoStart     bool
	RevealFolded  bool
}

// DefaultConfig returns the house defaults
func DefaultConfig() Config {
	return Config{
		SmallBlind:    10,
		BigBlind:      20,
		MaxPlayers:    8,
		StartingChips: 1000,
		MaxRooms:      100,
		ActionTimeout: 30 * time.Second,
		NextHandDelay: 5 * time.Second,
		BotDelay:      time.Second,
		AutoStart:     true,
	}
}

// Validate checks the configuration is playable
func (c Config) Validate() error {
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		return fmt.Errorf("invalid blinds %d/%d", c.SmallBlind, c.BigBlind)
	}
	if c.MaxPlayers < 2 || c.MaxPlayers > 9 {
		return fmt.Errorf("max players must be between 2 and 9, got %d", c.MaxPlayers)
	}
	if c.StartingChips < c.BigBlind {
		return fmt.Errorf("starting chips %d below big blind %d", c.StartingChips, c.BigBlind)
	}
	if c.MaxRooms < 1 {
		return fmt.Errorf("max rooms must be positive, got %d", c.MaxRooms)
	}
	if c.ActionTimeout < 0 || c.NextHandDelay < 0 || c.BotDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}
