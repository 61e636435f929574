package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/pokerrooms/cmd/pokerrooms/shared"
	"github.com/lox/pokerrooms/internal/client"
	"github.com/lox/pokerrooms/internal/tui"
	"github.com/muesli/termenv"
)

// ClientCmd runs the interactive terminal client
type ClientCmd struct {
	Config  string `kong:"short='c',default='pokerrooms-client.hcl',help='Client HCL config file'"`
	Server  string `kong:"help='Server URL, overrides the config file'"`
	Name    string `kong:"help='Display name (defaults to $USER)'"`
	Debug   bool   `kong:"help='Enable debug logging to the log file'"`
	NoColor bool   `kong:"help='Disable colors'"`
}

func (c *ClientCmd) Run() error {
	cfg, err := client.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Server != "" {
		cfg.Server.URL = strings.TrimSpace(c.Server)
	}
	if c.Name != "" {
		cfg.Player.Name = strings.TrimSpace(c.Name)
	}
	if cfg.Player.Name == "" {
		cfg.Player.Name = os.Getenv("USER")
	}
	if cfg.Player.Name == "" {
		cfg.Player.Name = "Player"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}

	// The TUI owns the terminal so logs go to a file
	logger, closer, err := shared.SetupFileLogger(cfg.UI.LogFile, cfg.UI.LogLevel, c.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	conn := client.New(cfg.Server.URL, logger)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ConnectTimeout)*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.Server.URL, err)
	}
	defer conn.Close()

	if c.NoColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	model := tui.New(conn, conn.Messages(), cfg.Player.Name, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running terminal client: %w", err)
	}
	return nil
}
