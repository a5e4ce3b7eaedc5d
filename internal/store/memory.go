// internal/store/memory.go
//
// In-memory implementation of the Store interface for play-mode games.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - The map is guarded by an RWMutex; each game has its own mutex, held
//     for the whole read-modify-write of Update.
//   - Get returns a copy, so callers never share a game with Update.
//   - Games idle longer than the configured TTL are evicted by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// ErrNotFound is returned by Get for unknown or evicted IDs.
var ErrNotFound = errors.New("game not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a snapshot of a game by ID.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update runs fn on the stored game while holding that game's lock.
	// An error from fn is returned as is; the game keeps whatever fn did
	// to it before failing.
	Update(ctx context.Context, id string, fn func(*game.Game) error) error

	// Delete forgets a game. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error
}

type entry struct {
	mu      sync.Mutex // guards g
	g       *game.Game
	touched atomic.Int64 // unix nanos of the last write
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu    sync.RWMutex      // guards games
	games map[string]*entry // keyed by Game.ID
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store. ttl <= 0 disables
// eviction.
func NewMemoryStore(ttl time.Duration) *Memory {
	return &Memory{games: make(map[string]*entry), ttl: ttl, now: time.Now}
}

// Save stores a copy of g, replacing any game with the same ID.
func (m *Memory) Save(ctx context.Context, g *game.Game) error {
	e := &entry{g: g.Clone()}
	e.touched.Store(m.now().UnixNano())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = e
	return nil
}

// Get returns a copy of the game.
func (m *Memory) Get(ctx context.Context, id string) (*game.Game, error) {
	e, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.Clone(), nil
}

// Update serializes read-modify-write on one game. Other games are not
// blocked.
func (m *Memory) Update(ctx context.Context, id string, fn func(*game.Game) error) error {
	e, ok := m.lookup(id)
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn(e.g)
	e.touched.Store(m.now().UnixNano())
	return err
}

func (m *Memory) lookup(id string) (*entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.games[id]
	return e, ok
}

// Delete removes a game.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

// Len reports the number of stored games.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Sweep evicts games not written within the TTL and returns how many it
// removed.
func (m *Memory) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl).UnixNano()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		if e.touched.Load() < cutoff {
			delete(m.games, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
