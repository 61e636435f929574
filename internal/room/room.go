// Package room runs poker rooms: a roster of players with chip stacks carried from hand
// to hand, one hand at a time, with timers for bots, auto-fold and the next deal.
package room

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/pokerrooms/internal/bot"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/lox/pokerrooms/internal/randutil"
)

var (
	ErrRoomFull       = errors.New("room is full")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomClosed     = errors.New("room closed")
	ErrTooManyRooms   = errors.New("too many rooms")
	ErrNotSeated      = errors.New("player not in room")
	ErrNoHand         = errors.New("no hand in progress")
	ErrHandInProgress = errors.New("hand already in progress")
)

// Room serializes every engine call for one table
type Room struct {
	code     string
	cfg      Config
	clock    quartz.Clock
	notifier Notifier
	history  phh.Sink // Optional
	logger   *log.Logger

	mu          sync.Mutex
	rng         *rand.Rand
	players     []*Player
	departed    map[string]bool // Left while holding a seat in the running hand
	hand        *game.HandState
	handID      string
	recorder    *phh.Recorder
	lastDealer  string
	handsPlayed int
	turn        uint64 // Bumped on every state change so stale timers can tell
	turnTimer   *quartz.Timer
	nextHand    *quartz.Timer
	closed      bool
}

func newRoom(code string, cfg Config, rng *rand.Rand, clock quartz.Clock, notifier Notifier, history phh.Sink, logger *log.Logger) *Room {
	return &Room{
		code:     code,
		cfg:      cfg,
		clock:    clock,
		notifier: notifier,
		history:  history,
		logger:   logger.With("room", code),
		rng:      rng,
		departed: make(map[string]bool),
	}
}

// Code returns the room's join code
func (r *Room) Code() string {
	return r.code
}

// Join seats a player with the starting stack. Joining twice is a no-op. Players who join
// while a hand is running are dealt in from the next hand.
func (r *Room) Join(p Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.find(p.ID) != nil {
		return nil
	}
	if len(r.players) >= r.cfg.MaxPlayers {
		return fmt.Errorf("%w: %d players", ErrRoomFull, len(r.players))
	}

	p.Chips = r.cfg.StartingChips
	r.players = append(r.players, &p)
	r.logger.Info("Player joined", "player", p.ID, "name", p.Name, "bot", p.Bot)
	r.notifier.RoomUpdated(r.summary())
	return nil
}

// AddBot seats a bot driven by policy, or by the house random policy when nil
func (r *Room) AddBot(policy bot.Policy) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Player{}, ErrRoomClosed
	}
	if len(r.players) >= r.cfg.MaxPlayers {
		return Player{}, fmt.Errorf("%w: %d players", ErrRoomFull, len(r.players))
	}
	if policy == nil {
		policy = bot.NewRandomPolicy(r.rng)
	}

	bots := 0
	for _, p := range r.players {
		if p.Bot {
			bots++
		}
	}
	p := &Player{
		ID:     "bot-" + uuid.NewString()[:8],
		Name:   fmt.Sprintf("Bot %d", bots+1),
		Chips:  r.cfg.StartingChips,
		Bot:    true,
		policy: policy,
	}
	r.players = append(r.players, p)
	r.logger.Info("Bot joined", "player", p.ID, "policy", policy.Name())
	r.notifier.RoomUpdated(r.summary())
	return *p, nil
}

// Leave removes a player and returns how many humans remain. A player leaving mid-hand
// is folded when their turn comes, immediately if it already has.
func (r *Room) Leave(playerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.players, func(p *Player) bool { return p.ID == playerID })
	if idx < 0 {
		return r.humans(), fmt.Errorf("%w: %s", ErrNotSeated, playerID)
	}
	r.players = slices.Delete(r.players, idx, idx+1)
	r.logger.Info("Player left", "player", playerID)

	if r.handRunning() {
		if seat, ok := r.hand.Seat(playerID); ok && seat.InHand() {
			r.departed[playerID] = true
			if acting := r.hand.ActingSeat(); acting != nil && acting.ID == playerID {
				r.advance()
			}
		}
	}

	r.notifier.RoomUpdated(r.summary())
	return r.humans(), nil
}

// StartHand deals a new hand to every player with chips
func (r *Room) StartHand() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startHand()
}

func (r *Room) startHand() error {
	if r.closed {
		return ErrRoomClosed
	}
	if r.handRunning() {
		return ErrHandInProgress
	}
	if r.nextHand != nil {
		r.nextHand.Stop()
		r.nextHand = nil
	}

	seats := make([]game.SeatConfig, len(r.players))
	for i, p := range r.players {
		seats[i] = game.SeatConfig{ID: p.ID, Name: p.Name, Chips: p.Chips}
	}

	h := game.NewHand(randutil.Derive(r.rng), r.cfg.SmallBlind, r.cfg.BigBlind,
		game.WithPreviousDealer(r.lastDealer),
		game.WithRevealFolded(r.cfg.RevealFolded),
		game.WithLogger(r.logger))
	if err := h.StartHand(seats); err != nil {
		return err
	}

	r.hand = h
	r.handID = uuid.Must(uuid.NewV7()).String()
	r.lastDealer = h.Dealer()
	r.departed = make(map[string]bool)
	r.recorder = nil
	if r.history != nil {
		r.recorder = phh.NewRecorder(r.handID, r.code, h, r.clock.Now())
	}

	r.logger.Info("Hand started", "hand", r.handID, "dealer", h.Dealer(), "seats", len(h.Seats))
	r.notifier.HandStarted(r.code, r.handID, h.PublicView())
	for _, s := range h.Seats {
		if p := r.find(s.ID); p != nil && !p.Bot {
			pv, _ := h.PrivateView(s.ID)
			r.notifier.PrivateCards(r.code, s.ID, pv)
		}
	}
	r.notifier.RoomUpdated(r.summary())

	r.advance()
	return nil
}

// Act applies a player's action to the running hand
func (r *Room) Act(playerID string, a game.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.handRunning() {
		return ErrNoHand
	}
	if r.find(playerID) == nil {
		return fmt.Errorf("%w: %s", ErrNotSeated, playerID)
	}
	if err := r.apply(playerID, a); err != nil {
		return err
	}
	r.logger.Debug("Player acted", "player", playerID, "action", a)
	r.advance()
	return nil
}

// apply applies an action to the running hand and records it
func (r *Room) apply(seatID string, a game.Action) error {
	if err := r.hand.ApplyAction(seatID, a); err != nil {
		return err
	}
	if r.recorder != nil {
		r.recorder.Record(seatID, a.Kind, r.hand)
	}
	return nil
}

// advance publishes the new state and schedules whatever happens next
func (r *Room) advance() {
	r.stopTurnTimer()
	r.turn++

	for !r.hand.Finished {
		seat := r.hand.ActingSeat()
		if !r.departed[seat.ID] {
			break
		}
		r.logger.Info("Folding departed player", "player", seat.ID)
		if err := r.apply(seat.ID, game.Action{Kind: game.Fold}); err != nil {
			r.logger.Error("Failed to fold departed player", "player", seat.ID, "error", err)
			break
		}
	}

	view := r.hand.PublicView()
	r.notifier.HandUpdated(r.code, view)
	if r.hand.Finished {
		r.finishHand(view)
		return
	}

	seat := r.hand.ActingSeat()
	turn := r.turn
	p := r.find(seat.ID)
	if p != nil && p.Bot {
		r.turnTimer = r.clock.AfterFunc(r.cfg.BotDelay, func() { r.botTurn(turn) }, "bot")
		return
	}

	if opts, err := r.hand.Options(seat.ID); err == nil {
		r.notifier.ActionRequired(r.code, seat.ID, opts)
	}
	if r.cfg.ActionTimeout > 0 {
		r.turnTimer = r.clock.AfterFunc(r.cfg.ActionTimeout, func() { r.timeout(turn) }, "timeout")
	}
}

func (r *Room) botTurn(turn uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || turn != r.turn || !r.handRunning() {
		return
	}
	seat := r.hand.ActingSeat()
	p := r.find(seat.ID)
	if p == nil || !p.Bot {
		return
	}

	opts, err := r.hand.Options(seat.ID)
	if err != nil {
		r.logger.Error("Bot has no options", "player", seat.ID, "error", err)
		return
	}
	d := p.policy.Decide(bot.Situation{View: r.hand.PublicView(), HoleCards: seat.HoleCards, Options: opts})
	r.logger.Debug("Bot decision", "player", seat.ID, "action", d.Action, "reasoning", d.Reasoning)

	if err := r.apply(seat.ID, d.Action); err != nil {
		r.logger.Error("Bot action rejected, folding", "player", seat.ID, "action", d.Action, "error", err)
		if err := r.apply(seat.ID, game.Action{Kind: game.Fold}); err != nil {
			return
		}
	}
	r.advance()
}

func (r *Room) timeout(turn uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || turn != r.turn || !r.handRunning() {
		return
	}
	seat := r.hand.ActingSeat()
	r.logger.Warn("Action timeout, folding", "player", seat.ID, "timeout", r.cfg.ActionTimeout)
	r.notifier.PlayerTimedOut(r.code, seat.ID)

	if err := r.apply(seat.ID, game.Action{Kind: game.Fold}); err != nil {
		r.logger.Error("Failed to auto-fold", "player", seat.ID, "error", err)
		return
	}
	r.advance()
}

// finishHand carries stacks back to the roster and schedules the next deal
func (r *Room) finishHand(view game.PublicView) {
	r.stopTurnTimer()
	for _, p := range r.players {
		if r.departed[p.ID] {
			continue
		}
		if seat, ok := r.hand.Seat(p.ID); ok {
			p.Chips = seat.Stack
		}
	}
	r.handsPlayed++
	r.writeHistory()

	r.logger.Info("Hand finished", "hand", r.handID, "pot", view.Pot, "winners", len(view.Winners), "showdown", view.Showdown)
	r.notifier.HandFinished(r.code, view)
	r.notifier.RoomUpdated(r.summary())

	if r.cfg.AutoStart && r.playersWithChips() >= 2 {
		r.nextHand = r.clock.AfterFunc(r.cfg.NextHandDelay, r.autoStart, "next-hand")
	}
}

func (r *Room) writeHistory() {
	if r.recorder == nil {
		return
	}
	if err := r.history.WriteHand(r.recorder.Finish(r.hand)); err != nil {
		r.logger.Error("Failed to write hand history", "hand", r.handID, "error", err)
	}
	r.recorder = nil
}

func (r *Room) autoStart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.handRunning() {
		return
	}
	if err := r.startHand(); err != nil {
		r.logger.Debug("Next hand not started", "error", err)
	}
}

// Close stops all timers. The room rejects further joins and hands.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.stopTurnTimer()
	if r.nextHand != nil {
		r.nextHand.Stop()
	}
	r.logger.Info("Room closed")
	r.notifier.RoomClosed(r.code)
}

// Summary describes the room for listings
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary()
}

// PublicView returns the current or most recent hand
func (r *Room) PublicView() (game.PublicView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hand == nil {
		return game.PublicView{}, false
	}
	return r.hand.PublicView(), true
}

// PrivateCards returns a player's hole cards in the current or most recent hand
func (r *Room) PrivateCards(playerID string) (game.PrivateView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hand == nil {
		return game.PrivateView{}, ErrNoHand
	}
	if r.find(playerID) == nil {
		return game.PrivateView{}, fmt.Errorf("%w: %s", ErrNotSeated, playerID)
	}
	return r.hand.PrivateView(playerID)
}

// HandID returns the ID of the current or most recent hand
func (r *Room) HandID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handID
}

// Player returns a roster entry
func (r *Room) Player(id string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.find(id); p != nil {
		return *p, true
	}
	return Player{}, false
}

func (r *Room) summary() Summary {
	s := Summary{
		Code:        r.code,
		MaxPlayers:  r.cfg.MaxPlayers,
		SmallBlind:  r.cfg.SmallBlind,
		BigBlind:    r.cfg.BigBlind,
		HandRunning: r.handRunning(),
		HandsPlayed: r.handsPlayed,
	}
	for _, p := range r.players {
		s.Players = append(s.Players, *p)
	}
	return s
}

func (r *Room) find(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) handRunning() bool {
	return r.hand != nil && !r.hand.Finished
}

func (r *Room) humans() int {
	n := 0
	for _, p := range r.players {
		if !p.Bot {
			n++
		}
	}
	return n
}

func (r *Room) playersWithChips() int {
	n := 0
	for _, p := range r.players {
		if p.Chips > 0 {
			n++
		}
	}
	return n
}

func (r *Room) stopTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}
