package tui

import "github.com/charmbracelet/lipgloss"

// Palette
const (
	colorText    = lipgloss.Color("#FAFAFA")
	colorMuted   = lipgloss.Color("#626262")
	colorAccent  = lipgloss.Color("#7D56F4")
	colorFocus   = lipgloss.Color("#04B575")
	colorGood    = lipgloss.Color("#96CEB4")
	colorGold    = lipgloss.Color("#FFD700")
	colorBad     = lipgloss.Color("#FF6B6B")
	colorWarning = lipgloss.Color("#FFEAA7")
)

func bold(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

var (
	HeaderStyle     = bold(colorText).Background(colorAccent)
	HandInfoStyle   = bold(colorGood)
	ActionsStyle    = bold(colorGold)
	PlayerInfoStyle = lipgloss.NewStyle().Foreground(colorText)
	InfoStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	SuccessStyle    = bold(colorGood)
	WarningStyle    = bold(colorWarning)
	ErrorStyle      = bold(colorBad)

	// Black suits stay readable on dark and light terminals
	RedCardStyle   = bold(colorBad)
	BlackCardStyle = bold(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#E0E0E0"})
)
