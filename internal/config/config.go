// Package config holds the runtime settings for the puzzle server.
//
// Values come from the environment (optionally seeded from a .env file by
// main) and are parsed once at startup, validated, then passed down
// explicitly.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config describes all runtime settings.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFormat is "json" or "console".
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// WordsFile replaces the embedded answer list when set.
	WordsFile string `env:"WORDS_FILE"`
	// TUILog receives the terminal front end's log; empty discards it.
	TUILog string `env:"TUI_LOG"`

	// Store selects board persistence: "memory" or "sqlite".
	Store  string `env:"STORE" envDefault:"sqlite"`
	DBPath string `env:"DB_PATH" envDefault:"./data/wordle.db"`

	// Oracle selects word validation: "dictionary" (remote API) or "list"
	// (embedded guess list, no network).
	Oracle        string        `env:"ORACLE" envDefault:"dictionary"`
	DictionaryURL string        `env:"DICTIONARY_URL" envDefault:"https://api.dictionaryapi.dev/api/v2/entries/en/"`
	OracleTimeout time.Duration `env:"ORACLE_TIMEOUT" envDefault:"5s"`

	// PlayerSecret signs player cookies.
	PlayerSecret string        `env:"PLAYER_SECRET" envDefault:"dev_secret_change_me"`
	PlayerTTL    time.Duration `env:"PLAYER_TTL" envDefault:"4320h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	PruneInterval   time.Duration `env:"PRUNE_INTERVAL" envDefault:"1h"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated settings and durations.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("STORE must be memory or sqlite, got %q", c.Store))
	}
	switch c.Oracle {
	case "dictionary", "list":
	default:
		errs = append(errs, fmt.Errorf("ORACLE must be dictionary or list, got %q", c.Oracle))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	if c.OracleTimeout <= 0 {
		errs = append(errs, errors.New("ORACLE_TIMEOUT must be positive"))
	}
	if c.PlayerSecret == "" {
		errs = append(errs, errors.New("PLAYER_SECRET must not be empty"))
	}
	if c.PruneInterval <= 0 {
		errs = append(errs, errors.New("PRUNE_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}
