package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testRoomConfig() room.Config {
	cfg := room.DefaultConfig()
	cfg.AutoStart = false
	cfg.ActionTimeout = 0
	return cfg
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(testRoomConfig(), testLogger(), WithManagerOptions(room.WithRNG(randutil.New(1))))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Stop()
	})
	return s, ts
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(messageType MessageType, data any, requestID string) {
	c.t.Helper()
	msg, err := NewMessage(messageType, data)
	require.NoError(c.t, err)
	msg.RequestID = requestID
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

// expect reads until a message of the given type satisfying match arrives, decoding
// its payload into v
func (c *testClient) expect(messageType MessageType, v any, match func() bool) *Message {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg Message
		require.NoError(c.t, c.conn.ReadJSON(&msg), "waiting for %s", messageType)
		if msg.Type != messageType {
			continue
		}
		if v != nil {
			require.NoError(c.t, json.Unmarshal(msg.Data, v))
		}
		if match == nil || match() {
			return &msg
		}
	}
}

// expectAfter sends a request and waits for the reply of replyType. A non-empty
// requestID must be echoed back.
func (c *testClient) expectAfter(messageType MessageType, data any, requestID string, replyType MessageType, v any) *Message {
	c.t.Helper()
	c.send(messageType, data, requestID)
	var got *Message
	got = c.expect(replyType, v, func() bool { return true })
	for requestID != "" && got.RequestID != requestID {
		got = c.expect(replyType, v, nil)
	}
	return got
}

func roomPlayer(id, name string) room.Player {
	return room.Player{ID: id, Name: name}
}
