// Command wordle-daily serves the daily word puzzle over HTTP.
//
// Startup: load .env (if present), parse config, configure zerolog, load the
// word lists, open storage, build the word oracle, then serve until SIGINT or
// SIGTERM and shut down gracefully.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-daily/assets"
	"github.com/robalobadob/wordle-daily/internal/config"
	"github.com/robalobadob/wordle-daily/internal/daily"
	"github.com/robalobadob/wordle-daily/internal/db"
	"github.com/robalobadob/wordle-daily/internal/game"
	"github.com/robalobadob/wordle-daily/internal/httpserver"
	"github.com/robalobadob/wordle-daily/internal/oracle"
	"github.com/robalobadob/wordle-daily/internal/store"
	"github.com/robalobadob/wordle-daily/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	if err := words.Init(cfg.WordsFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	var (
		boards store.Store
		seen   daily.SeenStore
		conn   *sql.DB
	)
	switch cfg.Store {
	case "sqlite":
		conn, err = db.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer conn.Close()
		if err := db.Migrate(conn, assets.Migrations()); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		boards, seen = store.NewSQLStore(conn), daily.NewStore(conn)
	default:
		boards, seen = store.NewMemoryStore(), daily.NewMemoryStore()
	}

	players, err := httpserver.NewPlayerTokens(cfg.PlayerSecret, cfg.PlayerTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("player tokens")
	}

	srv := httpserver.New(httpserver.Options{
		Store:          boards,
		Seen:           seen,
		Oracle:         newOracle(cfg),
		Entries:        words.Entries(),
		Players:        players,
		ClientOrigin:   cfg.ClientOrigin,
		CookieSecure:   cfg.CookieSecure,
		RequestTimeout: cfg.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go pruneLoop(ctx, srv, cfg.PruneInterval)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Str("oracle", cfg.Oracle).Msg("starting wordle-daily")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// newOracle builds the word validator selected by ORACLE, always behind the
// per-process cache.
func newOracle(cfg config.Config) game.Validator {
	var next oracle.Oracle = oracle.List{}
	if cfg.Oracle == "dictionary" {
		next = oracle.NewDictionary(cfg.DictionaryURL, cfg.OracleTimeout)
	}
	return oracle.NewCached(next)
}

// pruneLoop drops boards from previous days until ctx is cancelled.
func pruneLoop(ctx context.Context, srv *httpserver.Server, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := srv.Prune(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("prune boards")
				continue
			}
			if n > 0 {
				log.Info().Int("boards", n).Msg("pruned previous days")
			}
		}
	}
}
