// Command wordle-tui plays today's puzzle in the terminal.
//
// It reads the same environment as the server. With STORE=sqlite the board
// and the help flag are kept in DB_PATH under a local player, so quitting and
// reopening resumes the day's game.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-daily/assets"
	"github.com/robalobadob/wordle-daily/internal/config"
	"github.com/robalobadob/wordle-daily/internal/daily"
	"github.com/robalobadob/wordle-daily/internal/db"
	"github.com/robalobadob/wordle-daily/internal/game"
	"github.com/robalobadob/wordle-daily/internal/oracle"
	"github.com/robalobadob/wordle-daily/internal/store"
	"github.com/robalobadob/wordle-daily/internal/tui"
	"github.com/robalobadob/wordle-daily/internal/words"
)

const localPlayer = "local"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "wordle-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// The terminal belongs to the UI; logs go to TUI_LOG when set.
	log.Logger = zerolog.Nop()
	if cfg.TUILog != "" {
		f, err := tea.LogToFile(cfg.TUILog, "")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
	}

	if err := words.Init(cfg.WordsFile); err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}

	ctx := context.Background()
	now := time.Now()
	k := store.Key{PlayerID: localPlayer, Date: daily.DateKey(now)}
	target := daily.Select(now, words.Entries())

	boards, seen := store.NewMemoryStore(), daily.NewMemoryStore()
	if cfg.Store == "sqlite" {
		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer conn.Close()
		if err := db.Migrate(conn, assets.Migrations()); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		boards, seen = store.NewSQLStore(conn), daily.NewStore(conn)
	}

	sess, err := resume(ctx, boards, k, target)
	if err != nil {
		return err
	}
	helpSeen, err := seen.Seen(ctx, k.PlayerID, k.Date)
	if err != nil {
		log.Warn().Err(err).Msg("help flag")
	}

	var next oracle.Oracle = oracle.List{}
	if cfg.Oracle == "dictionary" {
		next = oracle.NewDictionary(cfg.DictionaryURL, cfg.OracleTimeout)
	}

	final, err := tea.NewProgram(tui.New(sess, oracle.NewCached(next), k.Date, !helpSeen), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	if err := boards.Save(ctx, k, sess.Snapshot()); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.HelpDismissed() && !helpSeen {
		if err := seen.MarkSeen(ctx, k.PlayerID, k.Date); err != nil {
			return fmt.Errorf("mark help seen: %w", err)
		}
	}
	return nil
}

// resume restores today's board, or starts a fresh one.
func resume(ctx context.Context, boards store.Store, k store.Key, target words.Entry) (*game.Session, error) {
	snap, err := boards.Load(ctx, k)
	if errors.Is(err, store.ErrNotFound) {
		return game.NewSession(target), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	sess, err := game.Restore(target, snap)
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable board")
		return game.NewSession(target), nil
	}
	return sess, nil
}
