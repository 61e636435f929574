package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/lox/pokerrooms/poker"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateRoomData struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomData struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type AddBotData struct {
	Policy string `json:"policy,omitempty"`
	Count  int    `json:"count,omitempty"` // Defaults to 1
}

// PlayerActionData carries an action either as a bare name with a separate amount
// ({"action": "raise", "amount": 200}) or as an object ({"action": {"type": "raise", "amount": 200}}).
type PlayerActionData struct {
	Action json.RawMessage `json:"action"`
	Amount int             `json:"amount,omitempty"`
}

// Decode resolves the payload into an engine action
func (d PlayerActionData) Decode() (game.Action, error) {
	if len(d.Action) == 0 {
		return game.Action{}, fmt.Errorf("%w: missing action", game.ErrUnknownAction)
	}
	var a game.Action
	if err := json.Unmarshal(d.Action, &a); err != nil {
		return game.Action{}, err
	}
	if a.Amount == 0 {
		if d.Amount < 0 {
			return game.Action{}, fmt.Errorf("%w: negative amount %d", game.ErrIllegalBetSize, d.Amount)
		}
		a.Amount = d.Amount
	}
	return a, nil
}

// Server → Client Messages

type RoomJoinedData struct {
	RoomCode string       `json:"roomCode"`
	PlayerID string       `json:"playerId"`
	Room     room.Summary `json:"room"`
}

type RoomCodeData struct {
	RoomCode string `json:"roomCode"`
}

type RoomListData struct {
	Rooms []room.Summary `json:"rooms"`
}

type GameStateData struct {
	RoomCode string          `json:"roomCode"`
	HandID   string          `json:"handId,omitempty"`
	State    game.PublicView `json:"state"`
}

type MyCardsData struct {
	RoomCode string       `json:"roomCode"`
	Cards    []poker.Card `json:"cards"`
}

type YourTurnData struct {
	RoomCode string `json:"roomCode"`
	game.ActionOptions
}

type PlayerTimeoutData struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
