package phh

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe replays the recorded actions as readable lines
func Describe(h *HandHistory) []string {
	name := func(player string) string {
		i, err := strconv.Atoi(strings.TrimPrefix(player, "p"))
		if err != nil || i < 1 || i > len(h.Players) {
			return player
		}
		return h.Players[i-1]
	}

	lines := []string{fmt.Sprintf("Hand %s", h.HandID)}
	if h.Table != "" {
		lines[0] += " at " + h.Table
	}
	if h.Year > 0 {
		lines[0] += fmt.Sprintf(" on %04d-%02d-%02d %s %s", h.Year, h.Month, h.Day, h.Time, h.TimeZone)
	}
	for i, p := range h.Players {
		if i < len(h.StartingStacks) {
			lines = append(lines, fmt.Sprintf("Seat %d: %s (%d)", i+1, p, h.StartingStacks[i]))
		}
	}

	// Stacks and street commitments, seeded with the blinds
	stack := make(map[string]int)
	for i, s := range h.StartingStacks {
		stack[fmt.Sprintf("p%d", i+1)] = s
	}
	street := make(map[string]int)
	bet, streets := 0, 0
	for i, b := range h.BlindsOrStraddles {
		if b > 0 {
			p := fmt.Sprintf("p%d", i+1)
			street[p] = b
			stack[p] -= b
			bet = max(bet, b)
			lines = append(lines, fmt.Sprintf("%s posts %d", name(p), b))
		}
	}

	for _, action := range h.Actions {
		f := strings.Fields(action)
		switch {
		case len(f) == 4 && f[0] == "d" && f[1] == "dh":
			lines = append(lines, fmt.Sprintf("Dealt to %s [%s]", name(f[2]), strings.Join(splitCards(f[3]), " ")))
		case len(f) == 3 && f[0] == "d" && f[1] == "db":
			streets++
			lines = append(lines, fmt.Sprintf("*** %s *** [%s]", streetName(streets), strings.Join(splitCards(f[2]), " ")))
			clear(street)
			bet = 0
		case len(f) == 2 && f[1] == "f":
			lines = append(lines, name(f[0])+" folds")
		case len(f) == 2 && f[1] == "cc":
			if bet == street[f[0]] {
				lines = append(lines, name(f[0])+" checks")
				continue
			}
			call := min(bet-street[f[0]], stack[f[0]])
			lines = append(lines, fmt.Sprintf("%s calls %d", name(f[0]), call))
			street[f[0]] += call
			stack[f[0]] -= call
		case len(f) == 3 && f[1] == "cbr":
			to, _ := strconv.Atoi(f[2])
			verb := "raises to"
			if bet == 0 {
				verb = "bets"
			}
			lines = append(lines, fmt.Sprintf("%s %s %d", name(f[0]), verb, to))
			stack[f[0]] -= to - street[f[0]]
			street[f[0]] = to
			bet = to
		case len(f) == 3 && f[1] == "sm":
			lines = append(lines, fmt.Sprintf("%s shows [%s]", name(f[0]), strings.Join(splitCards(f[2]), " ")))
		default:
			lines = append(lines, action)
		}
	}

	for i, won := range h.Winnings {
		if won > 0 && i < len(h.Players) {
			lines = append(lines, fmt.Sprintf("%s wins %d", h.Players[i], won))
		}
	}
	return lines
}

func streetName(n int) string {
	switch n {
	case 1:
		return "FLOP"
	case 2:
		return "TURN"
	case 3:
		return "RIVER"
	default:
		return "BOARD"
	}
}
