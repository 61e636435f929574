// Package tui is the terminal client: a Bubble Tea program fed by the websocket
// connection, with a scrolling game log, a table sidebar and a command line.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/lox/pokerrooms/internal/server"
	"github.com/lox/pokerrooms/poker"
)

// Sender issues requests to the server. *client.Client implements it.
type Sender interface {
	CreateRoom(playerName string) (string, error)
	JoinRoom(code, playerName string) (string, error)
	LeaveRoom() (string, error)
	StartGame() (string, error)
	Act(a game.Action) (string, error)
	GetMyCards() (string, error)
	AddBot(policy string, count int) (string, error)
	ListRooms() (string, error)
}

// serverMsg carries one websocket message into the program
type serverMsg struct {
	*server.Message
}

// disconnectedMsg reports that the message feed has closed
type disconnectedMsg struct{}

const (
	paneLog = iota
	paneInput
)

// Model represents the Bubble Tea model for the poker client
type Model struct {
	sender     Sender
	messages   <-chan *server.Message
	playerName string
	logger     *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	quitting    bool
	focusedPane int

	// Room and hand as last reported by the server
	roomCode string
	playerID string
	players  []room.Player
	view     *game.PublicView
	myCards  []poker.Card
	turn     *game.ActionOptions

	width       int
	height      int
	initialized bool
}

// New creates a model that sends through sender and renders messages
func New(sender Sender, messages <-chan *server.Message, playerName string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Type a command (help for the list)"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = bold(colorFocus)
	ti.TextStyle = PlayerInfoStyle
	ti.Prompt = "> "

	m := &Model{
		sender:      sender,
		messages:    messages,
		playerName:  playerName,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		focusedPane: paneInput,
	}
	m.AddLogEntry(HeaderStyle.Render(" Poker Rooms ") + " " + InfoStyle.Render("playing as "+playerName))
	m.AddLogEntry(InfoStyle.Render("create a room, join CODE, or rooms to list open rooms. help for more."))
	return m
}

// Init starts the cursor and the message listener
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listen())
}

// listen waits for the next server message
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.messages
		if !ok {
			return disconnectedMsg{}
		}
		return serverMsg{msg}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case serverMsg:
		m.handleServerMessage(msg.Message)
		return m, m.listen()

	case disconnectedMsg:
		m.AddLogEntry(ErrorStyle.Render("Disconnected from server. Ctrl+C to exit."))
		m.turn = nil
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == paneLog {
				m.focusedPane = paneInput
				m.actionInput.Focus()
			} else {
				m.focusedPane = paneLog
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == paneInput {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.submit(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == paneLog {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == paneLog {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == paneInput {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(paneInput)).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(paneLog)).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) borderColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return colorFocus
	}
	return colorMuted
}

// renderSidebarPane shows the room, the board and the players
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	if m.roomCode == "" {
		content.WriteString(InfoStyle.Render("Not in a room"))
		return content.String()
	}
	content.WriteString(HandInfoStyle.Render("Room " + m.roomCode))
	content.WriteString("\n\n")

	if m.view != nil {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: %d", m.view.Pot)))
		if m.view.CurrentBet > 0 && !m.view.Finished {
			content.WriteString(" | ")
			content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: %d", m.view.CurrentBet)))
		}
		content.WriteString("\n")
		if len(m.view.Community) > 0 {
			content.WriteString("Board: " + formatCards(m.view.Community) + "\n")
		}
		if len(m.myCards) > 0 {
			content.WriteString("Hand:  " + formatCards(m.myCards) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(InfoStyle.Render("Players:"))
	content.WriteString("\n")
	for _, line := range m.playerLines() {
		content.WriteString("  " + line + "\n")
	}
	return content.String()
}

// playerLines lists seats in the running hand, or the room roster between hands
func (m *Model) playerLines() []string {
	var lines []string
	if m.view != nil && !m.view.Finished {
		for _, s := range m.view.Seats {
			marker := " "
			switch {
			case s.Acting:
				marker = ">"
			case s.Dealer:
				marker = "D"
			}
			line := fmt.Sprintf("%s %s: %d", marker, s.Name, s.Chips)
			if s.StreetBet > 0 {
				line += fmt.Sprintf(" (%d)", s.StreetBet)
			}
			switch s.Status {
			case "folded":
				line = InfoStyle.Render(line + " folded")
			case "allin":
				line = WarningStyle.Render(line + " all-in")
			default:
				line = PlayerInfoStyle.Render(line)
			}
			lines = append(lines, line)
		}
		return lines
	}

	for _, p := range m.players {
		line := fmt.Sprintf("  %s: %d", p.Name, p.Chips)
		if p.Bot {
			line += " (bot)"
		}
		lines = append(lines, PlayerInfoStyle.Render(line))
	}
	return lines
}

// renderActionPane renders the action input pane
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if m.turn != nil {
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand: %s  To call: %d  Stack: %d",
			formatCards(m.myCards), m.turn.ToCall, m.turn.Stack)))
		content.WriteString("\n")
		content.WriteString(renderAvailableActions(*m.turn))
		content.WriteString("\n")
		m.actionInput.Placeholder = "fold, check, call, bet N, raise N, allin"
	} else {
		content.WriteString(HandInfoStyle.Render("Waiting..."))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Type a command (help for the list)"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == paneLog {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))
	return content.String()
}

// renderAvailableActions renders the legal actions with their sizes
func renderAvailableActions(opts game.ActionOptions) string {
	var actions []string
	for _, kind := range opts.Actions {
		switch kind {
		case game.Fold:
			actions = append(actions, ErrorStyle.Render("[fold]"))
		case game.Check:
			actions = append(actions, SuccessStyle.Render("[check]"))
		case game.Call:
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call %d]", min(opts.ToCall, opts.Stack))))
		case game.Bet:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[bet %d-%d]", opts.MinRaiseTo, opts.MaxRaiseTo)))
		case game.Raise:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[raise %d-%d]", opts.MinRaiseTo, opts.MaxRaiseTo)))
		case game.AllIn:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[allin %d]", opts.Stack)))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatCards formats cards with colors
func formatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		text := card.Rank.String() + card.Suit.Symbol()
		if card.Suit.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(text))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(text))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}
