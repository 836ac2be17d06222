package daily

import (
	"context"
	"database/sql"
	"sync"
)

// SeenStore records which players have dismissed the "how to play" popup on a
// given day. It only decides whether to show instructions and never touches
// game state.
type SeenStore interface {
	Seen(ctx context.Context, playerID, date string) (bool, error)
	MarkSeen(ctx context.Context, playerID, date string) error
}

// Store is the SQLite-backed SeenStore.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Seen(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM help_seen WHERE player_id=? AND date=?",
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

func (s *Store) MarkSeen(ctx context.Context, playerID, date string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO help_seen(player_id, date) VALUES(?,?)`,
		playerID, date,
	)
	return err
}

// memorySeen is the SeenStore used when no database is configured.
type memorySeen struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewMemoryStore returns an in-process SeenStore.
func NewMemoryStore() SeenStore {
	return &memorySeen{seen: make(map[string]struct{})}
}

func (m *memorySeen) Seen(_ context.Context, playerID, date string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.seen[playerID+"|"+date]
	return ok, nil
}

func (m *memorySeen) MarkSeen(_ context.Context, playerID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[playerID+"|"+date] = struct{}{}
	return nil
}
