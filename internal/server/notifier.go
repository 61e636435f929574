package server

import (
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/room"
)

var _ room.Notifier = (*Server)(nil)

func (s *Server) broadcast(code string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		s.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	s.BroadcastToRoom(code, msg)
}

func (s *Server) sendTo(playerID string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		s.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	if err := s.SendToPlayer(playerID, msg); err != nil {
		s.logger.Debug("Dropped player message", "player", playerID, "type", messageType, "error", err)
	}
}

func (s *Server) RoomUpdated(summary room.Summary) {
	s.broadcast(summary.Code, MessageTypeRoomUpdate, summary)
}

func (s *Server) HandStarted(code, handID string, view game.PublicView) {
	s.broadcast(code, MessageTypeGameStarted, GameStateData{RoomCode: code, HandID: handID, State: view})
}

func (s *Server) HandUpdated(code string, view game.PublicView) {
	s.broadcast(code, MessageTypeGameUpdate, GameStateData{RoomCode: code, State: view})
}

// PrivateCards goes only to the owning player
func (s *Server) PrivateCards(code, playerID string, cards game.PrivateView) {
	s.sendTo(playerID, MessageTypeMyCards, MyCardsData{RoomCode: code, Cards: cards.HoleCards})
}

func (s *Server) ActionRequired(code, playerID string, opts game.ActionOptions) {
	s.sendTo(playerID, MessageTypeYourTurn, YourTurnData{RoomCode: code, ActionOptions: opts})
}

func (s *Server) HandFinished(code string, view game.PublicView) {
	s.broadcast(code, MessageTypeHandFinished, GameStateData{RoomCode: code, State: view})
}

func (s *Server) PlayerTimedOut(code, playerID string) {
	s.broadcast(code, MessageTypePlayerTimeout, PlayerTimeoutData{RoomCode: code, PlayerID: playerID})
}

// RoomClosed tells the room's connections and detaches them from it
func (s *Server) RoomClosed(code string) {
	s.broadcast(code, MessageTypeRoomClosed, RoomCodeData{RoomCode: code})

	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		if conn.Room() == code {
			conn.setRoom("", "")
		}
	}
}
