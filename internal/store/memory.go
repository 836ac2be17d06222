// internal/store/memory.go
//
// Persistence for the current day's boards.
// A Store keeps one game.Snapshot per player and date so a board survives
// page reloads and (with the SQL implementation) restarts. It is not game
// history: Prune drops every day before the current one.
//
// The in-memory implementation:
//   - Stores snapshots keyed by Key in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordle-daily/internal/game"
)

// ErrNotFound is returned by Load when no board exists for the key.
var ErrNotFound = errors.New("not found")

// Key identifies one player's board for one day.
type Key struct {
	PlayerID string
	Date     string // YYYY-MM-DD, see daily.DateKey
}

func (k Key) String() string { return k.PlayerID + "|" + k.Date }

// Store defines the persistence interface for boards.
type Store interface {
	// Save persists or replaces the board for k.
	Save(ctx context.Context, k Key, snap game.Snapshot) error

	// Load retrieves the board for k, or ErrNotFound.
	Load(ctx context.Context, k Key) (game.Snapshot, error)

	// Prune deletes boards for dates strictly before date.
	Prune(ctx context.Context, date string) (int, error)
}

type memory struct {
	mu     sync.RWMutex
	boards map[Key]game.Snapshot
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{boards: make(map[Key]game.Snapshot)}
}

func (m *memory) Save(_ context.Context, k Key, snap game.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[k] = snap
	return nil
}

func (m *memory) Load(_ context.Context, k Key) (game.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.boards[k]; ok {
		return s, nil
	}
	return game.Snapshot{}, ErrNotFound
}

func (m *memory) Prune(_ context.Context, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.boards {
		if k.Date < date {
			delete(m.boards, k)
			n++
		}
	}
	return n, nil
}
