package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lox/pokerrooms/internal/bot"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/internal/room"
)

const (
	maxNameLength = 24
	maxBotsPerAdd = 7
)

// errorCodes maps failures onto the codes clients switch on, most specific first
var errorCodes = []struct {
	err  error
	code string
}{
	{room.ErrRoomNotFound, "room_not_found"},
	{room.ErrRoomFull, "room_full"},
	{room.ErrRoomClosed, "room_closed"},
	{room.ErrTooManyRooms, "too_many_rooms"},
	{room.ErrNotSeated, "not_in_room"},
	{room.ErrNoHand, "no_hand"},
	{room.ErrHandInProgress, "hand_in_progress"},
	{game.ErrNotEnoughPlayers, "not_enough_players"},
	{game.ErrNotYourTurn, "not_your_turn"},
	{game.ErrHandFinished, "hand_finished"},
	{game.ErrUnknownAction, "unknown_action"},
	{game.ErrIllegalCheck, "illegal_action"},
	{game.ErrNothingToCall, "illegal_action"},
	{game.ErrIllegalBetSize, "illegal_action"},
	{game.ErrInsufficientChips, "illegal_action"},
	{game.ErrIllegalAction, "illegal_action"},
}

func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal_error"
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "room", c.Room())

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if c.decode(msg, &data) {
			c.handleCreateRoom(msg, data)
		}

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if c.decode(msg, &data) {
			c.handleJoinRoom(msg, data)
		}

	case MessageTypeLeaveRoom:
		c.handleLeaveRoom(msg)

	case MessageTypeStartGame:
		c.handleStartGame(msg)

	case MessageTypePlayerAction:
		var data PlayerActionData
		if c.decode(msg, &data) {
			c.handlePlayerAction(msg, data)
		}

	case MessageTypeGetMyCards:
		c.handleGetMyCards(msg)

	case MessageTypeAddBot:
		var data AddBotData
		if c.decode(msg, &data) {
			c.handleAddBot(msg, data)
		}

	case MessageTypeListRooms:
		c.reply(msg, MessageTypeRoomList, RoomListData{Rooms: c.server.manager.List()})

	default:
		c.sendError(msg, "unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// decode unmarshals the message payload, answering with an error when it is malformed.
// An absent payload leaves v at its zero value.
func (c *Connection) decode(msg *Message, v any) bool {
	if len(msg.Data) == 0 || string(msg.Data) == "null" {
		return true
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.sendError(msg, "invalid_message", fmt.Sprintf("Failed to parse %s data: %v", msg.Type, err))
		return false
	}
	return true
}

func (c *Connection) fail(req *Message, err error) {
	c.logger.Debug("Request failed", "type", req.Type, "error", err)
	c.sendError(req, errorCode(err), err.Error())
}

func (c *Connection) validName(req *Message, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		c.sendError(req, "invalid_name", "Player name required")
		return "", false
	}
	if len(name) > maxNameLength {
		c.sendError(req, "invalid_name", fmt.Sprintf("Player name longer than %d characters", maxNameLength))
		return "", false
	}
	return name, true
}

// currentRoom resolves the room this connection sits in
func (c *Connection) currentRoom(req *Message) (*room.Room, bool) {
	code := c.Room()
	if code == "" {
		c.sendError(req, "not_in_room", "Join a room first")
		return nil, false
	}
	r, err := c.server.manager.Get(code)
	if err != nil {
		c.setRoom("", "")
		c.fail(req, err)
		return nil, false
	}
	return r, true
}

func (c *Connection) handleCreateRoom(req *Message, data CreateRoomData) {
	name, ok := c.validName(req, data.PlayerName)
	if !ok {
		return
	}
	if code := c.Room(); code != "" {
		c.sendError(req, "already_in_room", "Already in room "+code)
		return
	}

	r, err := c.server.manager.Create(room.Player{ID: c.playerID, Name: name})
	if err != nil {
		c.fail(req, err)
		return
	}
	c.setRoom(r.Code(), name)
	c.logger.Info("Created room", "room", r.Code(), "name", name)
	c.reply(req, MessageTypeRoomJoined, RoomJoinedData{RoomCode: r.Code(), PlayerID: c.playerID, Room: r.Summary()})
}

func (c *Connection) handleJoinRoom(req *Message, data JoinRoomData) {
	name, ok := c.validName(req, data.PlayerName)
	if !ok {
		return
	}
	if code := c.Room(); code != "" && !strings.EqualFold(code, strings.TrimSpace(data.RoomCode)) {
		c.sendError(req, "already_in_room", "Already in room "+code)
		return
	}

	r, err := c.server.manager.Join(data.RoomCode, room.Player{ID: c.playerID, Name: name})
	if err != nil {
		c.fail(req, err)
		return
	}
	c.setRoom(r.Code(), name)
	c.logger.Info("Joined room", "room", r.Code(), "name", name)
	c.reply(req, MessageTypeRoomJoined, RoomJoinedData{RoomCode: r.Code(), PlayerID: c.playerID, Room: r.Summary()})

	// Late joiners see the hand in progress
	if view, ok := r.PublicView(); ok && !view.Finished {
		c.reply(nil, MessageTypeGameUpdate, GameStateData{RoomCode: r.Code(), HandID: r.HandID(), State: view})
	}
}

func (c *Connection) handleLeaveRoom(req *Message) {
	code := c.Room()
	if code == "" {
		c.sendError(req, "not_in_room", "Not in a room")
		return
	}
	c.setRoom("", "")

	err := c.server.manager.Leave(code, c.playerID)
	if err != nil && !errors.Is(err, room.ErrRoomNotFound) && !errors.Is(err, room.ErrNotSeated) {
		c.fail(req, err)
		return
	}
	c.logger.Info("Left room", "room", code)
	c.reply(req, MessageTypeRoomLeft, RoomCodeData{RoomCode: code})
}

func (c *Connection) handleStartGame(req *Message) {
	r, ok := c.currentRoom(req)
	if !ok {
		return
	}
	if err := r.StartHand(); err != nil {
		c.fail(req, err)
	}
}

func (c *Connection) handlePlayerAction(req *Message, data PlayerActionData) {
	action, err := data.Decode()
	if err != nil {
		c.fail(req, err)
		return
	}
	r, ok := c.currentRoom(req)
	if !ok {
		return
	}
	if err := r.Act(c.playerID, action); err != nil {
		c.fail(req, err)
	}
}

func (c *Connection) handleGetMyCards(req *Message) {
	r, ok := c.currentRoom(req)
	if !ok {
		return
	}
	pv, err := r.PrivateCards(c.playerID)
	if err != nil {
		c.fail(req, err)
		return
	}
	c.reply(req, MessageTypeMyCards, MyCardsData{RoomCode: r.Code(), Cards: pv.HoleCards})
}

func (c *Connection) handleAddBot(req *Message, data AddBotData) {
	r, ok := c.currentRoom(req)
	if !ok {
		return
	}

	name := data.Policy
	if name == "" {
		name = c.server.botPolicy
	}
	count := max(data.Count, 1)
	if count > maxBotsPerAdd {
		c.sendError(req, "invalid_message", fmt.Sprintf("At most %d bots per request", maxBotsPerAdd))
		return
	}

	for range count {
		policy, ok := bot.New(name, randutil.NewFromTime())
		if !ok {
			c.sendError(req, "unknown_policy", "Unknown bot policy: "+name)
			return
		}
		p, err := r.AddBot(policy)
		if err != nil {
			c.fail(req, err)
			return
		}
		c.logger.Info("Added bot", "room", r.Code(), "bot", p.ID, "policy", policy.Name())
	}
}
