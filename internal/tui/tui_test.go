package tui

import (
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/lox/pokerrooms/internal/server"
	"github.com/lox/pokerrooms/poker"
	"github.com/stretchr/testify/assert"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	// Render plain text so assertions do not depend on the terminal
	lipgloss.SetColorProfile(termenv.Ascii)
}

// recordingSender keeps every request instead of sending it
type recordingSender struct {
	calls []string
}

func (r *recordingSender) record(parts ...any) (string, error) {
	r.calls = append(r.calls, strings.Join(strings.Fields(fmt.Sprintln(parts...)), " "))
	return "req", nil
}

func (r *recordingSender) CreateRoom(name string) (string, error)   { return r.record("create", name) }
func (r *recordingSender) JoinRoom(code, name string) (string, error) { return r.record("join", code, name) }
func (r *recordingSender) LeaveRoom() (string, error)                 { return r.record("leave") }
func (r *recordingSender) StartGame() (string, error)                 { return r.record("start") }
func (r *recordingSender) Act(a game.Action) (string, error)          { return r.record("act", a) }
func (r *recordingSender) GetMyCards() (string, error)                { return r.record("cards") }
func (r *recordingSender) AddBot(policy string, count int) (string, error) {
	return r.record("bot", policy, count)
}
func (r *recordingSender) ListRooms() (string, error) { return r.record("rooms") }

func newTestModel() (*Model, *recordingSender) {
	sender := &recordingSender{}
	return New(sender, make(chan *server.Message), "Alice", log.New(io.Discard)), sender
}

func deliver(t *testing.T, m *Model, messageType server.MessageType, data any) {
	t.Helper()
	msg, err := server.NewMessage(messageType, data)
	require.NoError(t, err)
	_, cmd := m.Update(serverMsg{msg})
	require.NotNil(t, cmd, "the model keeps listening")
}

func lastLog(m *Model) string {
	return m.gameLog[len(m.gameLog)-1]
}

func TestSubmitDispatchesCommands(t *testing.T) {
	t.Parallel()
	m, sender := newTestModel()

	for _, input := range []string{
		"create", "join abcde", "start", "bot", "bot maniac 3", "bot 2",
		"fold", "check", "CALL", "bet 40", "raise 120", "all-in", "cards", "rooms", "leave", "",
	} {
		assert.Nil(t, m.submit(input), input)
	}

	assert.Equal(t, []string{
		"create Alice",
		"join abcde Alice",
		"start",
		"bot 1",
		"bot maniac 3",
		"bot 2",
		"act fold",
		"act check",
		"act call",
		"act bet 40",
		"act raise to 120",
		"act allin",
		"cards",
		"rooms",
		"leave",
	}, sender.calls)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	t.Parallel()
	m, sender := newTestModel()

	for _, input := range []string{"join", "bet", "raise lots", "bet -5", "call 20", "bot 0"} {
		m.submit(input)
		assert.Contains(t, lastLog(m), "usage", input)
	}
	assert.Empty(t, sender.calls)

	m.submit("dance")
	assert.Contains(t, lastLog(m), `unknown command "dance"`)
}

func TestQuitCommand(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel()

	cmd := m.submit("quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestServerMessagesUpdateState(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel()

	deliver(t, m, server.MessageTypeRoomJoined, server.RoomJoinedData{
		RoomCode: "ABCDE",
		PlayerID: "p1",
		Room:     room.Summary{Code: "ABCDE", Players: []room.Player{{ID: "p1", Name: "Alice", Chips: 1000}}},
	})
	assert.Equal(t, "ABCDE", m.roomCode)
	assert.Contains(t, lastLog(m), "Joined room ABCDE")

	deliver(t, m, server.MessageTypeRoomUpdate, room.Summary{Code: "ABCDE", Players: []room.Player{
		{ID: "p1", Name: "Alice", Chips: 1000},
		{ID: "p2", Name: "Bob", Chips: 1000},
	}})
	require.Len(t, m.players, 2)

	view := game.PublicView{
		Stage:        game.Preflop,
		Pot:          30,
		CurrentBet:   20,
		SmallBlind:   10,
		BigBlind:     20,
		DealerID:     "p1",
		ActingSeatID: "p2",
		Seats: []game.PublicSeat{
			{ID: "p1", Name: "Alice", Chips: 980, StreetBet: 20, TotalBet: 20, Status: "active", Dealer: true},
			{ID: "p2", Name: "Bob", Chips: 990, StreetBet: 10, TotalBet: 10, Status: "active", Acting: true},
		},
	}
	deliver(t, m, server.MessageTypeGameStarted, server.GameStateData{RoomCode: "ABCDE", HandID: "h1", State: view})
	require.NotNil(t, m.view)
	assert.Contains(t, lastLog(m), "dealer You, blinds 10/20")

	cards := []poker.Card{poker.NewCard(poker.Ace, poker.Spades), poker.NewCard(poker.King, poker.Hearts)}
	deliver(t, m, server.MessageTypeMyCards, server.MyCardsData{RoomCode: "ABCDE", Cards: cards})
	assert.Equal(t, cards, m.myCards)

	// Bob calls and the action comes back to alice
	called := view
	called.Pot = 40
	called.ActingSeatID = "p1"
	called.Seats = []game.PublicSeat{
		{ID: "p1", Name: "Alice", Chips: 980, StreetBet: 20, TotalBet: 20, Status: "active", Dealer: true, Acting: true},
		{ID: "p2", Name: "Bob", Chips: 980, StreetBet: 20, TotalBet: 20, Status: "active"},
	}
	deliver(t, m, server.MessageTypeGameUpdate, server.GameStateData{RoomCode: "ABCDE", State: called})
	assert.Equal(t, "Bob calls 10", lastLog(m))

	deliver(t, m, server.MessageTypeYourTurn, server.YourTurnData{RoomCode: "ABCDE", ActionOptions: game.ActionOptions{
		SeatID:     "p1",
		Actions:    []game.ActionKind{game.Fold, game.Check, game.Raise, game.AllIn},
		Stack:      980,
		MinRaiseTo: 40,
		MaxRaiseTo: 1000,
	}})
	require.NotNil(t, m.turn)
	assert.Contains(t, renderAvailableActions(*m.turn), "[raise 40-1000]")

	finished := called
	finished.Finished = true
	finished.ActingSeatID = ""
	finished.Winners = []game.Payout{{SeatID: "p2", Name: "Bob", Amount: 40}}
	deliver(t, m, server.MessageTypeHandFinished, server.GameStateData{RoomCode: "ABCDE", State: finished})
	assert.Nil(t, m.turn)
	assert.Equal(t, "Bob wins 40", lastLog(m))

	deliver(t, m, server.MessageTypeError, server.ErrorData{Code: "not_your_turn", Message: "not your turn"})
	assert.Equal(t, "Error: not your turn", lastLog(m))

	deliver(t, m, server.MessageTypeRoomClosed, server.RoomCodeData{RoomCode: "ABCDE"})
	assert.Empty(t, m.roomCode)
	assert.Nil(t, m.view)
}

func TestDescribeChanges(t *testing.T) {
	t.Parallel()

	seat := func(id string, streetBet, total int, status string) game.PublicSeat {
		return game.PublicSeat{ID: id, Name: strings.ToUpper(id), StreetBet: streetBet, TotalBet: total, Status: status}
	}
	board := []poker.Card{
		poker.NewCard(poker.Two, poker.Clubs),
		poker.NewCard(poker.Seven, poker.Diamonds),
		poker.NewCard(poker.Jack, poker.Spades),
	}

	tests := []struct {
		name string
		prev game.PublicView
		next game.PublicView
		want []string
	}{
		{
			name: "raise",
			prev: game.PublicView{CurrentBet: 20, ActingSeatID: "a", Seats: []game.PublicSeat{seat("a", 0, 0, "active")}},
			next: game.PublicView{CurrentBet: 60, ActingSeatID: "b", Seats: []game.PublicSeat{seat("a", 60, 60, "active")}},
			want: []string{"A raises to 60"},
		},
		{
			name: "fold",
			prev: game.PublicView{ActingSeatID: "a", Seats: []game.PublicSeat{seat("a", 0, 0, "active")}},
			next: game.PublicView{ActingSeatID: "b", Seats: []game.PublicSeat{seat("a", 0, 0, "folded")}},
			want: []string{"A folds"},
		},
		{
			name: "check closes the street",
			prev: game.PublicView{Stage: game.Preflop, ActingSeatID: "b", Seats: []game.PublicSeat{seat("b", 20, 20, "active")}},
			next: game.PublicView{Stage: game.Flop, Community: board, ActingSeatID: "a", Seats: []game.PublicSeat{seat("b", 0, 20, "active")}},
			want: []string{"B checks", "*** FLOP *** [2♣ 7♦ J♠]"},
		},
		{
			name: "bet",
			prev: game.PublicView{Stage: game.Flop, ActingSeatID: "a", Seats: []game.PublicSeat{seat("a", 0, 20, "active")}},
			next: game.PublicView{Stage: game.Flop, CurrentBet: 40, ActingSeatID: "b", Seats: []game.PublicSeat{seat("a", 40, 60, "active")}},
			want: []string{"A bets 40"},
		},
		{
			name: "all-in",
			prev: game.PublicView{CurrentBet: 20, ActingSeatID: "a", Seats: []game.PublicSeat{seat("a", 0, 0, "active")}},
			next: game.PublicView{CurrentBet: 150, ActingSeatID: "b", Seats: []game.PublicSeat{seat("a", 150, 150, "allin")}},
			want: []string{"A is all-in for 150"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, describeChanges(&tt.prev, &tt.next))
		})
	}
}

func TestViewRenders(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel()
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	assert.Contains(t, out, "Not in a room")
	assert.Contains(t, out, "Poker Rooms")
}
