package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/pokerrooms/internal/game"
)

var errUsage = errors.New("usage")

var helpLines = []string{
	"create               open a room and sit in it",
	"join CODE            join a room by code",
	"rooms                list open rooms",
	"start                deal the next hand",
	"bot [POLICY] [N]     seat N bots (random, calling, maniac, tight)",
	"fold | check | call  act on your turn",
	"bet N | raise N      N is the total you put in this street",
	"allin                push your stack",
	"cards                show your hole cards again",
	"leave                leave the room",
	"quit                 exit",
}

// submit runs one line of input
func (m *Model) submit(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]
	m.AddLogEntry(InfoStyle.Render("> " + input))

	var err error
	switch name {
	case "quit", "exit":
		m.quitting = true
		return tea.Quit
	case "help", "?":
		for _, line := range helpLines {
			m.AddLogEntry(InfoStyle.Render("  " + line))
		}
		return nil
	case "create":
		_, err = m.sender.CreateRoom(m.playerName)
	case "join":
		if len(args) != 1 {
			err = fmt.Errorf("%w: join CODE", errUsage)
			break
		}
		_, err = m.sender.JoinRoom(args[0], m.playerName)
	case "leave":
		_, err = m.sender.LeaveRoom()
	case "start":
		_, err = m.sender.StartGame()
	case "rooms", "list":
		_, err = m.sender.ListRooms()
	case "cards":
		_, err = m.sender.GetMyCards()
	case "bot", "bots":
		var policy string
		var count int
		policy, count, err = parseBotArgs(args)
		if err == nil {
			_, err = m.sender.AddBot(policy, count)
		}
	default:
		var action game.Action
		action, err = parseAction(name, args)
		if err == nil {
			_, err = m.sender.Act(action)
		}
	}

	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
	}
	return nil
}

// parseAction turns "raise 200" style input into an action
func parseAction(name string, args []string) (game.Action, error) {
	kind, err := game.ParseActionKind(name)
	if err != nil {
		return game.Action{}, fmt.Errorf("unknown command %q, try help", name)
	}

	switch kind {
	case game.Bet, game.Raise:
		if len(args) != 1 {
			return game.Action{}, fmt.Errorf("%w: %s N", errUsage, kind)
		}
		amount, err := strconv.Atoi(args[0])
		if err != nil || amount <= 0 {
			return game.Action{}, fmt.Errorf("%w: %s N where N is a positive number of chips", errUsage, kind)
		}
		return game.Action{Kind: kind, Amount: amount}, nil
	default:
		if len(args) != 0 {
			return game.Action{}, fmt.Errorf("%w: %s takes no amount", errUsage, kind)
		}
		return game.Action{Kind: kind}, nil
	}
}

// parseBotArgs accepts an optional policy name and an optional count in either order
func parseBotArgs(args []string) (string, int, error) {
	policy, count := "", 1
	if len(args) > 2 {
		return "", 0, fmt.Errorf("%w: bot [POLICY] [N]", errUsage)
	}
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 {
				return "", 0, fmt.Errorf("%w: bot count must be positive", errUsage)
			}
			count = n
			continue
		}
		policy = strings.ToLower(arg)
	}
	return policy, count, nil
}
