// internal/httpserver/server.go
//
// HTTP server wiring for the daily puzzle.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, timeouts, access log, JSON, CORS).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Session endpoints (player-scoped): mounted under /session.
//   - Help popup flag: POST /help/dismiss.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every route runs behind withPlayer, which guarantees a player id.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-daily/internal/daily"
	"github.com/robalobadob/wordle-daily/internal/game"
	"github.com/robalobadob/wordle-daily/internal/store"
	"github.com/robalobadob/wordle-daily/internal/words"
)

// Options carries the server's collaborators.
type Options struct {
	Store   store.Store
	Seen    daily.SeenStore
	Oracle  game.Validator
	Entries []words.Entry
	Players *PlayerTokens

	ClientOrigin   string
	CookieSecure   bool
	RequestTimeout time.Duration

	// Now overrides the clock (tests). Defaults to time.Now.
	Now func() time.Time
}

// Server bundles the router and the live session registry.
type Server struct {
	r            *chi.Mux
	sessions     *registry
	seen         daily.SeenStore
	oracle       game.Validator
	players      *PlayerTokens
	now          func() time.Time
	cookieSecure bool
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:            chi.NewRouter(),
		sessions:     newRegistry(opts.Store, opts.Entries),
		seen:         opts.Seen,
		oracle:       opts.Oracle,
		players:      opts.Players,
		now:          opts.Now,
		cookieSecure: opts.CookieSecure,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))        // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))      // one line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordle-daily","endpoints":["/health","POST /session","GET /session","POST /session/letter","POST /session/backspace","POST /session/submit","POST /session/dismiss","POST /help/dismiss"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := words.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer())
		s.mountSession(r)
		r.Post("/help/dismiss", s.handleHelpDismiss)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// accessLog writes one structured line per request.
func accessLog(r *http.Request, status, size int, d time.Duration) {
	lvl := zerolog.InfoLevel
	if status >= 500 {
		lvl = zerolog.ErrorLevel
	}
	hlog.FromRequest(r).WithLevel(lvl).
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", playerHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- responses ---------------------------------

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}

// rejection maps engine errors onto a status and a stable error code.
func rejection(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrIncompleteAttempt):
		return http.StatusUnprocessableEntity, "incomplete_attempt"
	case errors.Is(err, game.ErrDuplicateGuess):
		return http.StatusConflict, "duplicate_guess"
	case errors.Is(err, game.ErrUnknownWord):
		return http.StatusUnprocessableEntity, "unknown_word"
	case errors.Is(err, game.ErrSessionTerminal):
		return http.StatusConflict, "session_terminal"
	case errors.Is(err, game.ErrSubmitPending):
		return http.StatusConflict, "submit_pending"
	case errors.Is(err, game.ErrInvalidLetter):
		return http.StatusBadRequest, "invalid_letter"
	case errors.Is(err, game.ErrNotFinished):
		return http.StatusConflict, "not_finished"
	}
	return http.StatusInternalServerError, "server_error"
}
