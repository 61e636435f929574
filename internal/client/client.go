// Package client is the websocket client side of the room protocol.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/server" // Reuse message types
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 54 * time.Second
	bufferedMsgs = 256
)

var ErrNotConnected = errors.New("not connected")

// Client represents a WebSocket client for a poker room server
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	requests  atomic.Uint64
	closeOnce sync.Once

	mu        sync.RWMutex
	connected bool
	playerID  string
	roomCode  string
}

// New creates a client for the server at serverURL. http(s) URLs are converted to
// ws(s) and default to the /ws path.
func New(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *server.Message, bufferedMsgs),
		receive:   make(chan *server.Message, bufferedMsgs),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// WebSocketURL converts a server address into the websocket endpoint URL
func WebSocketURL(serverURL string) (string, error) {
	if !strings.Contains(serverURL, "://") {
		serverURL = "http://" + serverURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", serverURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	wsURL, err := WebSocketURL(c.serverURL)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			err = c.conn.Close()
		}
		c.connected = false
		c.logger.Info("Disconnected from server")
	})
	return err
}

// Connected reports whether the connection is up
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Messages delivers everything the server sends. It is closed when the connection drops.
func (c *Client) Messages() <-chan *server.Message {
	return c.receive
}

// PlayerID returns the identity the server assigned, once a room has been joined
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// RoomCode returns the room this client sits in, if any
func (c *Client) RoomCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

// Send queues a request and returns its request ID
func (c *Client) Send(messageType server.MessageType, data any) (string, error) {
	if !c.Connected() {
		return "", ErrNotConnected
	}
	msg, err := server.NewMessage(messageType, data)
	if err != nil {
		return "", err
	}
	msg.RequestID = fmt.Sprintf("req-%d", c.requests.Add(1))

	select {
	case c.send <- msg:
		return msg.RequestID, nil
	case <-c.ctx.Done():
		return "", ErrNotConnected
	default:
		return "", fmt.Errorf("send buffer full")
	}
}

// CreateRoom opens a new room with this player in it
func (c *Client) CreateRoom(playerName string) (string, error) {
	return c.Send(server.MessageTypeCreateRoom, server.CreateRoomData{PlayerName: playerName})
}

// JoinRoom joins the room with the given code
func (c *Client) JoinRoom(code, playerName string) (string, error) {
	return c.Send(server.MessageTypeJoinRoom, server.JoinRoomData{RoomCode: code, PlayerName: playerName})
}

// LeaveRoom leaves the current room
func (c *Client) LeaveRoom() (string, error) {
	return c.Send(server.MessageTypeLeaveRoom, nil)
}

// StartGame deals the next hand in the current room
func (c *Client) StartGame() (string, error) {
	return c.Send(server.MessageTypeStartGame, nil)
}

// Act sends a betting action
func (c *Client) Act(a game.Action) (string, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return c.Send(server.MessageTypePlayerAction, server.PlayerActionData{Action: raw})
}

// GetMyCards asks for this player's hole cards
func (c *Client) GetMyCards() (string, error) {
	return c.Send(server.MessageTypeGetMyCards, nil)
}

// AddBot seats count bots with the named policy; an empty name uses the server default
func (c *Client) AddBot(policy string, count int) (string, error) {
	return c.Send(server.MessageTypeAddBot, server.AddBotData{Policy: policy, Count: count})
}

// ListRooms asks for the open rooms
func (c *Client) ListRooms() (string, error) {
	return c.Send(server.MessageTypeListRooms, nil)
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.receive)
	}()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)
		c.observe(&msg)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// observe tracks room membership from server messages
func (c *Client) observe(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeRoomJoined:
		var data server.RoomJoinedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		c.mu.Lock()
		c.playerID = data.PlayerID
		c.roomCode = data.RoomCode
		c.mu.Unlock()

	case server.MessageTypeRoomLeft, server.MessageTypeRoomClosed:
		c.mu.Lock()
		c.roomCode = ""
		c.mu.Unlock()
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.conn.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
