package room

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/bot"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Notifier that keeps what it was told
type recorder struct {
	mu       sync.Mutex
	started  []string
	updates  int
	private  map[string]int
	required []string
	finished []game.PublicView
	timeouts []string
	closed   []string
}

func newRecorder() *recorder {
	return &recorder{private: make(map[string]int)}
}

func (r *recorder) RoomUpdated(Summary) {}

func (r *recorder) HandStarted(_, handID string, _ game.PublicView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, handID)
}

func (r *recorder) HandUpdated(string, game.PublicView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
}

func (r *recorder) PrivateCards(_, playerID string, pv game.PrivateView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(pv.HoleCards) == 2 {
		r.private[playerID]++
	}
}

func (r *recorder) ActionRequired(_, playerID string, _ game.ActionOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.required = append(r.required, playerID)
}

func (r *recorder) HandFinished(_ string, view game.PublicView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, view)
}

func (r *recorder) PlayerTimedOut(_, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeouts = append(r.timeouts, playerID)
}

func (r *recorder) RoomClosed(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, code)
}

func (r *recorder) finishedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.finished)
}

func (r *recorder) startedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.started)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AutoStart = false
	cfg.ActionTimeout = 0
	return cfg
}

func newTestManager(t *testing.T, cfg Config) (*Manager, *recorder, *quartz.Mock) {
	t.Helper()
	rec := newRecorder()
	clock := quartz.NewMock(t)
	m := NewManager(cfg, rec, WithClock(clock), WithRNG(randutil.New(7)))
	t.Cleanup(m.Close)
	return m, rec, clock
}

func human(id string) Player {
	return Player{ID: id, Name: strings.ToUpper(id[:1]) + id[1:]}
}

func chipsOf(r *Room) map[string]int {
	out := make(map[string]int)
	for _, p := range r.Summary().Players {
		out[p.ID] = p.Chips
	}
	return out
}

func TestManagerCreate(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxRooms = 3
	m, _, _ := newTestManager(t, cfg)

	for i := range 3 {
		r, err := m.Create(human("owner" + string(rune('a'+i))))
		require.NoError(t, err)
		require.Len(t, r.Code(), codeLength)
		for _, c := range r.Code() {
			assert.Contains(t, codeAlphabet, string(c))
		}

		got, err := m.Get(strings.ToLower(r.Code()))
		require.NoError(t, err)
		assert.Same(t, r, got)
	}

	_, err := m.Create(human("late"))
	require.ErrorIs(t, err, ErrTooManyRooms)

	list := m.List()
	require.Len(t, list, 3)
	assert.True(t, list[0].Code < list[1].Code && list[1].Code < list[2].Code)

	_, err = m.Get("NOPE1")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRules(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MaxPlayers = 2
	m, _, _ := newTestManager(t, cfg)

	r, err := m.Create(human("alice"))
	require.NoError(t, err)

	_, err = m.Join(r.Code(), human("alice"))
	require.NoError(t, err, "joining twice is a no-op")
	_, err = m.Join(r.Code(), human("bob"))
	require.NoError(t, err)
	_, err = m.Join(r.Code(), human("carol"))
	require.ErrorIs(t, err, ErrRoomFull)
	_, err = r.AddBot(nil)
	require.ErrorIs(t, err, ErrRoomFull)

	assert.Equal(t, map[string]int{"alice": 1000, "bob": 1000}, chipsOf(r))
}

func TestLeaveClosesRoomWithoutHumans(t *testing.T) {
	t.Parallel()
	m, rec, _ := newTestManager(t, testConfig())

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	b, err := r.AddBot(nil)
	require.NoError(t, err)
	assert.True(t, b.Bot)
	assert.Equal(t, "Bot 1", b.Name)

	require.ErrorIs(t, m.Leave(r.Code(), "nobody"), ErrNotSeated)
	require.NoError(t, m.Leave(r.Code(), "alice"))

	_, err = m.Get(r.Code())
	require.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, []string{r.Code()}, rec.closed)
	require.ErrorIs(t, r.Join(human("bob")), ErrRoomClosed)
}

func TestStartHandRequiresTwoPlayers(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestManager(t, testConfig())

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	require.ErrorIs(t, r.StartHand(), game.ErrNotEnoughPlayers)
	require.ErrorIs(t, r.Act("alice", game.Action{Kind: game.Fold}), ErrNoHand)
}

func TestHandCarriesChipsForward(t *testing.T) {
	t.Parallel()
	m, rec, _ := newTestManager(t, testConfig())

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	_, err = m.Join(r.Code(), human("bob"))
	require.NoError(t, err)

	require.NoError(t, r.StartHand())
	require.ErrorIs(t, r.StartHand(), ErrHandInProgress)
	assert.NotEmpty(t, r.HandID())
	assert.Equal(t, map[string]int{"alice": 1, "bob": 1}, rec.private)
	assert.Equal(t, []string{"bob"}, rec.required)

	require.ErrorIs(t, r.Act("carol", game.Action{Kind: game.Fold}), ErrNotSeated)
	require.ErrorIs(t, r.Act("alice", game.Action{Kind: game.Fold}), game.ErrNotYourTurn)

	// Heads-up: alice deals and posts the big blind, bob posts the small blind and acts first
	require.NoError(t, r.Act("bob", game.Action{Kind: game.Fold}))
	require.Equal(t, 1, rec.finishedCount())
	assert.Equal(t, map[string]int{"alice": 1010, "bob": 990}, chipsOf(r))
	assert.Equal(t, 1, r.Summary().HandsPlayed)

	// The button moves to bob for the next hand
	require.NoError(t, r.StartHand())
	view, ok := r.PublicView()
	require.True(t, ok)
	assert.Equal(t, "bob", view.DealerID)

	pv, err := r.PrivateCards("alice")
	require.NoError(t, err)
	assert.Len(t, pv.HoleCards, 2)
}

// memorySink keeps hand histories in memory
type memorySink struct {
	hands []*phh.HandHistory
}

func (s *memorySink) WriteHand(h *phh.HandHistory) error {
	s.hands = append(s.hands, h)
	return nil
}

func TestHandHistoryIsRecorded(t *testing.T) {
	t.Parallel()
	sink := &memorySink{}
	m := NewManager(testConfig(), newRecorder(), WithClock(quartz.NewMock(t)), WithRNG(randutil.New(7)), WithHistory(sink))
	t.Cleanup(m.Close)

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	_, err = m.Join(r.Code(), human("bob"))
	require.NoError(t, err)

	require.NoError(t, r.StartHand())
	require.NoError(t, r.Act("bob", game.Action{Kind: game.Call}))
	require.NoError(t, r.Act("alice", game.Action{Kind: game.Fold}))

	require.Len(t, sink.hands, 1)
	hand := sink.hands[0]
	assert.Equal(t, r.HandID(), hand.HandID)
	assert.Equal(t, r.Code(), hand.Table)
	assert.Equal(t, []string{"Bob", "Alice"}, hand.Players)
	assert.Equal(t, []int{10, 20}, hand.BlindsOrStraddles)
	assert.Equal(t, []string{"p1 cc", "p2 f"}, hand.Actions[2:])
	assert.Equal(t, []int{40, 0}, hand.Winnings)
	assert.Equal(t, []int{1020, 980}, hand.FinishingStacks)
}

func TestActionTimeoutFolds(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.ActionTimeout = 30 * time.Second
	m, rec, clock := newTestManager(t, cfg)

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	_, err = m.Join(r.Code(), human("bob"))
	require.NoError(t, err)
	require.NoError(t, r.StartHand())

	clock.Advance(30 * time.Second).MustWait(t.Context())

	require.Eventually(t, func() bool { return rec.finishedCount() == 1 }, time.Second, 5*time.Millisecond)
	rec.mu.Lock()
	assert.Equal(t, []string{"bob"}, rec.timeouts)
	rec.mu.Unlock()
	assert.Equal(t, map[string]int{"alice": 1010, "bob": 990}, chipsOf(r))
}

func TestBotActsAfterDelay(t *testing.T) {
	t.Parallel()
	m, rec, clock := newTestManager(t, testConfig())

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	b, err := r.AddBot(bot.NewCallingStation())
	require.NoError(t, err)
	require.NoError(t, r.StartHand())

	view, _ := r.PublicView()
	require.Equal(t, b.ID, view.ActingSeatID)
	rec.mu.Lock()
	assert.Equal(t, map[string]int{"alice": 1}, rec.private, "bots are not sent cards")
	rec.mu.Unlock()

	clock.Advance(time.Second).MustWait(t.Context())

	require.Eventually(t, func() bool {
		view, _ := r.PublicView()
		return view.ActingSeatID == "alice"
	}, time.Second, 5*time.Millisecond)
	view, _ = r.PublicView()
	assert.Equal(t, 20, view.Seats[1].StreetBet, "calling station completes the small blind")
}

func TestLeaveMidHandFoldsOnTurn(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestManager(t, testConfig())

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	for _, id := range []string{"bob", "carol", "dave"} {
		_, err = m.Join(r.Code(), human(id))
		require.NoError(t, err)
	}
	require.NoError(t, r.StartHand())

	// alice deals, bob and carol post blinds, dave is first to act
	require.NoError(t, m.Leave(r.Code(), "alice"))
	view, _ := r.PublicView()
	assert.Equal(t, "dave", view.ActingSeatID)

	require.NoError(t, r.Act("dave", game.Action{Kind: game.Call}))
	view, _ = r.PublicView()
	assert.Equal(t, "folded", view.Seats[0].Status, "alice is folded when her turn comes")
	assert.Equal(t, "bob", view.ActingSeatID)

	// Leaving while acting folds at once
	require.NoError(t, m.Leave(r.Code(), "bob"))
	view, _ = r.PublicView()
	assert.Equal(t, "folded", view.Seats[1].Status)
	assert.Equal(t, "carol", view.ActingSeatID)

	require.NoError(t, r.Act("carol", game.Action{Kind: game.Check}))
	view, _ = r.PublicView()
	assert.Equal(t, game.Flop, view.Stage)
	_, ok := r.Player("alice")
	assert.False(t, ok)
}

func TestAutoStartNextHand(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.AutoStart = true
	cfg.NextHandDelay = 5 * time.Second
	m, rec, clock := newTestManager(t, cfg)

	r, err := m.Create(human("alice"))
	require.NoError(t, err)
	_, err = m.Join(r.Code(), human("bob"))
	require.NoError(t, err)
	require.NoError(t, r.StartHand())
	require.NoError(t, r.Act("bob", game.Action{Kind: game.Fold}))
	require.Equal(t, 1, rec.startedCount())

	clock.Advance(5 * time.Second).MustWait(t.Context())

	require.Eventually(t, func() bool { return rec.startedCount() == 2 }, time.Second, 5*time.Millisecond)
	view, _ := r.PublicView()
	assert.Equal(t, "bob", view.DealerID)
	assert.False(t, view.Finished)
}
