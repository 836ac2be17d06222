package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordle-daily/internal/game"
)

// sqlStore persists boards in the sessions table as JSON.
type sqlStore struct{ db *sql.DB }

// NewSQLStore returns a Store backed by db. The schema comes from the
// embedded migrations (see db.Migrate).
func NewSQLStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Save(ctx context.Context, k Key, snap game.Snapshot) error {
	// Pending is a property of the live session, not of the board.
	snap.Pending = false
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (player_id, date, snapshot, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, date) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		k.PlayerID, k.Date, string(b), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqlStore) Load(ctx context.Context, k Key) (game.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM sessions WHERE player_id=? AND date=?`, k.PlayerID, k.Date,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return game.Snapshot{}, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", k, err)
	}
	return snap, nil
}

func (s *sqlStore) Prune(ctx context.Context, date string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE date < ?`, date)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
