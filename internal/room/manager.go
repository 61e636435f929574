package room

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/lox/pokerrooms/internal/randutil"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // No I, O, 0 or 1
	codeLength   = 5
)

// Manager owns every open room
type Manager struct {
	cfg      Config
	clock    quartz.Clock
	notifier Notifier
	history  phh.Sink
	logger   *log.Logger

	mu    sync.Mutex
	rng   *rand.Rand
	rooms map[string]*Room
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithClock sets the clock driving room timers
func WithClock(clock quartz.Clock) ManagerOption {
	return func(m *Manager) { m.clock = clock }
}

// WithRNG sets the source for room codes, shuffles and bots
func WithRNG(rng *rand.Rand) ManagerOption {
	return func(m *Manager) { m.rng = rng }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithHistory records every finished hand to sink
func WithHistory(sink phh.Sink) ManagerOption {
	return func(m *Manager) { m.history = sink }
}

// NewManager creates a manager for rooms sharing cfg
func NewManager(cfg Config, notifier Notifier, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:      cfg,
		notifier: notifier,
		rooms:    make(map[string]*Room),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = quartz.NewReal()
	}
	if m.rng == nil {
		m.rng = randutil.NewFromTime()
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.notifier == nil {
		m.notifier = NopNotifier{}
	}
	m.logger = m.logger.WithPrefix("rooms")
	return m
}

// Create opens a room with a fresh code and seats owner in it
func (m *Manager) Create(owner Player) (*Room, error) {
	m.mu.Lock()
	if len(m.rooms) >= m.cfg.MaxRooms {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRooms, m.cfg.MaxRooms)
	}
	code := m.newCode()
	r := newRoom(code, m.cfg, randutil.Derive(m.rng), m.clock, m.notifier, m.history, m.logger)
	m.rooms[code] = r
	m.mu.Unlock()

	m.logger.Info("Room created", "room", code, "owner", owner.ID)
	if err := r.Join(owner); err != nil {
		m.remove(code)
		return nil, err
	}
	return r, nil
}

// newCode returns an unused room code. Callers hold m.mu.
func (m *Manager) newCode() string {
	for {
		var b strings.Builder
		for range codeLength {
			b.WriteByte(codeAlphabet[m.rng.IntN(len(codeAlphabet))])
		}
		if _, taken := m.rooms[b.String()]; !taken {
			return b.String()
		}
	}
}

// Get looks a room up by code, ignoring case
func (m *Manager) Get(code string) (*Room, error) {
	code = normalizeCode(code)
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return r, nil
}

// Join seats p in the room with the given code
func (m *Manager) Join(code string, p Player) (*Room, error) {
	r, err := m.Get(code)
	if err != nil {
		return nil, err
	}
	if err := r.Join(p); err != nil {
		return nil, err
	}
	return r, nil
}

// Leave removes a player, closing the room once no humans are left in it
func (m *Manager) Leave(code, playerID string) error {
	r, err := m.Get(code)
	if err != nil {
		return err
	}
	humans, err := r.Leave(playerID)
	if err != nil {
		return err
	}
	if humans == 0 {
		m.remove(r.Code())
	}
	return nil
}

// List returns every room sorted by code
func (m *Manager) List() []Summary {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	summaries := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, r.Summary())
	}
	slices.SortFunc(summaries, func(a, b Summary) int { return strings.Compare(a.Code, b.Code) })
	return summaries
}

// Len returns the number of open rooms
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Close closes every room
func (m *Manager) Close() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}

func (m *Manager) remove(code string) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if ok {
		r.Close()
		m.logger.Info("Room removed", "room", code)
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
