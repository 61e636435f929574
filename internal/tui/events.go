package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/lox/pokerrooms/internal/server"
)

// handleServerMessage folds one server message into the model and the log
func (m *Model) handleServerMessage(msg *server.Message) {
	m.logger.Debug("Server message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case server.MessageTypeRoomJoined:
		var data server.RoomJoinedData
		if m.decode(msg, &data) {
			m.roomCode = data.RoomCode
			m.playerID = data.PlayerID
			m.players = data.Room.Players
			m.view, m.myCards, m.turn = nil, nil, nil
			m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("Joined room %s. Share the code to invite players.", data.RoomCode)))
		}

	case server.MessageTypeRoomLeft:
		m.leftRoom("Left the room")

	case server.MessageTypeRoomClosed:
		m.leftRoom("The room was closed")

	case server.MessageTypeRoomUpdate:
		var summary room.Summary
		if m.decode(msg, &summary) {
			m.players = summary.Players
		}

	case server.MessageTypeRoomList:
		var data server.RoomListData
		if m.decode(msg, &data) {
			m.logRooms(data.Rooms)
		}

	case server.MessageTypeGameStarted:
		var data server.GameStateData
		if m.decode(msg, &data) {
			m.view, m.myCards, m.turn = &data.State, nil, nil
			m.AddLogEntry("")
			m.AddLogEntry(HeaderStyle.Render(" New hand ") + " " +
				InfoStyle.Render(fmt.Sprintf("dealer %s, blinds %d/%d", m.name(data.State.DealerID), data.State.SmallBlind, data.State.BigBlind)))
		}

	case server.MessageTypeGameUpdate:
		var data server.GameStateData
		if m.decode(msg, &data) {
			for _, line := range describeChanges(m.view, &data.State) {
				m.AddLogEntry(line)
			}
			m.view = &data.State
			if data.State.ActingSeatID != m.playerID {
				m.turn = nil
			}
		}

	case server.MessageTypeMyCards:
		var data server.MyCardsData
		if m.decode(msg, &data) {
			m.myCards = data.Cards
			m.AddLogEntry("Your cards: " + formatCards(data.Cards))
		}

	case server.MessageTypeYourTurn:
		var data server.YourTurnData
		if m.decode(msg, &data) {
			opts := data.ActionOptions
			m.turn = &opts
			m.AddLogEntry(ActionsStyle.Render("Your turn"))
		}

	case server.MessageTypeHandFinished:
		var data server.GameStateData
		if m.decode(msg, &data) {
			m.view = &data.State
			m.turn = nil
			for _, line := range describeResult(data.State) {
				m.AddLogEntry(line)
			}
		}

	case server.MessageTypePlayerTimeout:
		var data server.PlayerTimeoutData
		if m.decode(msg, &data) {
			m.AddLogEntry(WarningStyle.Render(m.name(data.PlayerID) + " timed out"))
		}

	case server.MessageTypeError:
		var data server.ErrorData
		if m.decode(msg, &data) {
			m.AddLogEntry(ErrorStyle.Render("Error: " + data.Message))
		}

	default:
		m.logger.Debug("Ignoring message", "type", msg.Type)
	}
}

func (m *Model) decode(msg *server.Message, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		m.logger.Error("Failed to decode message", "type", msg.Type, "error", err)
		return false
	}
	return true
}

func (m *Model) leftRoom(reason string) {
	m.roomCode = ""
	m.players = nil
	m.view, m.myCards, m.turn = nil, nil, nil
	m.AddLogEntry(WarningStyle.Render(reason))
}

func (m *Model) logRooms(rooms []room.Summary) {
	if len(rooms) == 0 {
		m.AddLogEntry(InfoStyle.Render("No open rooms. create one!"))
		return
	}
	for _, r := range rooms {
		line := fmt.Sprintf("%s  %d/%d players  blinds %d/%d", r.Code, len(r.Players), r.MaxPlayers, r.SmallBlind, r.BigBlind)
		if r.HandRunning {
			line += "  (in a hand)"
		}
		m.AddLogEntry(PlayerInfoStyle.Render(line))
	}
}

// name resolves a player ID to a display name
func (m *Model) name(id string) string {
	if id == m.playerID && id != "" {
		return "You"
	}
	if m.view != nil {
		for _, s := range m.view.Seats {
			if s.ID == id {
				return s.Name
			}
		}
	}
	for _, p := range m.players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// describeChanges narrates what happened between two views of the same hand
func describeChanges(prev, next *game.PublicView) []string {
	if prev == nil || next == nil {
		return nil
	}

	var lines []string
	before := make(map[string]game.PublicSeat, len(prev.Seats))
	for _, s := range prev.Seats {
		before[s.ID] = s
	}

	acted := false
	for _, s := range next.Seats {
		was, ok := before[s.ID]
		if !ok {
			continue
		}
		// A new street resets street bets, so compare totals
		put := s.TotalBet - was.TotalBet
		switch {
		case s.Status == "folded" && was.Status != "folded":
			lines = append(lines, s.Name+" folds")
		case put > 0 && s.Status == "allin":
			lines = append(lines, WarningStyle.Render(fmt.Sprintf("%s is all-in for %d", s.Name, was.StreetBet+put)))
		case put > 0 && was.StreetBet+put == prev.CurrentBet:
			lines = append(lines, fmt.Sprintf("%s calls %d", s.Name, put))
		case put > 0 && prev.CurrentBet == 0:
			lines = append(lines, fmt.Sprintf("%s bets %d", s.Name, put))
		case put > 0:
			lines = append(lines, fmt.Sprintf("%s raises to %d", s.Name, was.StreetBet+put))
		default:
			continue
		}
		acted = true
	}
	if !acted && prev.ActingSeatID != "" && prev.ActingSeatID != next.ActingSeatID {
		for _, s := range prev.Seats {
			if s.ID == prev.ActingSeatID {
				lines = append(lines, s.Name+" checks")
			}
		}
	}

	if next.Stage != prev.Stage && len(next.Community) > len(prev.Community) {
		lines = append(lines, HandInfoStyle.Render(fmt.Sprintf("*** %s *** %s", strings.ToUpper(next.Stage.String()), formatCards(next.Community))))
	}
	return lines
}

// describeResult narrates the end of a hand
func describeResult(view game.PublicView) []string {
	var lines []string
	if len(view.Community) > 0 {
		lines = append(lines, "Board: "+formatCards(view.Community))
	}
	for _, s := range view.Seats {
		if len(s.Cards) == 0 {
			continue
		}
		line := fmt.Sprintf("%s shows %s", s.Name, formatCards(s.Cards))
		if s.HandName != "" {
			line += " (" + s.HandName + ")"
		}
		lines = append(lines, line)
	}
	for _, w := range view.Winners {
		line := fmt.Sprintf("%s wins %d", w.Name, w.Amount)
		if w.Hand != "" {
			line += " with " + w.Hand
		}
		lines = append(lines, SuccessStyle.Render(line))
	}
	return lines
}
