// internal/httpserver/routes_session.go
//
// HTTP routes for playing today's puzzle.
//   - POST /session           → load or start today's board (+ whether to show help)
//   - GET  /session           → current board
//   - POST /session/letter    → type one letter
//   - POST /session/backspace → delete the last letter
//   - POST /session/submit    → submit the current input
//   - POST /session/dismiss   → close the post-game dialog
//   - POST /help/dismiss      → hide the "how to play" popup for today
//
// Each player has one board per day (keyed by player id + date key). Live
// sessions are held in memory so concurrent requests share one in-flight
// submit flag; every mutation is also saved to the Store so a board survives
// reloads and restarts until the day rolls over.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-daily/internal/daily"
	"github.com/robalobadob/wordle-daily/internal/game"
	"github.com/robalobadob/wordle-daily/internal/store"
	"github.com/robalobadob/wordle-daily/internal/words"
)

// registry holds live sessions keyed by player and date.
type registry struct {
	mu      sync.Mutex // guards live
	live    map[store.Key]*game.Session
	store   store.Store
	entries []words.Entry
}

func newRegistry(st store.Store, entries []words.Entry) *registry {
	return &registry{live: make(map[store.Key]*game.Session), store: st, entries: entries}
}

// target returns the word for a date key. The target is derived from the
// key rather than the wall clock so a request straddling midnight cannot mix days.
func (g *registry) target(date string) (words.Entry, error) {
	t, err := time.ParseInLocation("2006-01-02", date, daily.Zone)
	if err != nil {
		return words.Entry{}, fmt.Errorf("date key %q: %w", date, err)
	}
	return daily.Select(t, g.entries), nil
}

// get returns the live session for k, restoring it from the store or
// starting a new one. created reports whether a new board was started.
func (g *registry) get(ctx context.Context, k store.Key) (sess *game.Session, created bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if sess, ok := g.live[k]; ok {
		return sess, false, nil
	}

	target, err := g.target(k.Date)
	if err != nil {
		return nil, false, err
	}
	snap, err := g.store.Load(ctx, k)
	switch {
	case err == nil:
		sess, err = game.Restore(target, snap)
		if err != nil {
			log.Warn().Err(err).Str("key", k.String()).Msg("discarding unreadable board")
			sess, created = game.NewSession(target), true
		}
	case errors.Is(err, store.ErrNotFound):
		sess, created = game.NewSession(target), true
	default:
		return nil, false, fmt.Errorf("load board: %w", err)
	}
	g.live[k] = sess
	return sess, created, nil
}

// lookup returns the live or persisted session for k without creating one.
func (g *registry) lookup(ctx context.Context, k store.Key) (*game.Session, error) {
	g.mu.Lock()
	sess, ok := g.live[k]
	g.mu.Unlock()
	if ok {
		return sess, nil
	}
	if _, err := g.store.Load(ctx, k); err != nil {
		return nil, err
	}
	sess, _, err := g.get(ctx, k)
	return sess, err
}

// save persists sess's board. Failures are logged, not returned: the live
// session stays authoritative for the rest of the day.
func (g *registry) save(ctx context.Context, k store.Key, sess *game.Session) {
	if err := g.store.Save(ctx, k, sess.Snapshot()); err != nil {
		log.Warn().Err(err).Str("key", k.String()).Msg("save board")
	}
}

// prune drops live and stored boards for days before date.
func (g *registry) prune(ctx context.Context, date string) (int, error) {
	g.mu.Lock()
	for k := range g.live {
		if k.Date < date {
			delete(g.live, k)
		}
	}
	g.mu.Unlock()
	return g.store.Prune(ctx, date)
}

// Prune removes boards older than today's date key. main runs it on a ticker
// so a day rollover frees yesterday's sessions.
func (s *Server) Prune(ctx context.Context) (int, error) {
	return s.sessions.prune(ctx, daily.DateKey(s.now()))
}

// mountSession registers all /session routes.
func (s *Server) mountSession(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.handleOpen)
		r.Get("/", s.handleBoard)
		r.Post("/letter", s.handleLetter)
		r.Post("/backspace", s.handleBackspace)
		r.Post("/submit", s.handleSubmit)
		r.Post("/dismiss", s.handleDismiss)
	})
}

// key returns the registry key for the request's player and today's date.
func (s *Server) key(r *http.Request) store.Key {
	return store.Key{PlayerID: playerID(r), Date: daily.DateKey(s.now())}
}

// boardRes is returned by every session route.
type boardRes struct {
	Date     string        `json:"date"`
	Board    game.Snapshot `json:"board"`
	ShowHelp *bool         `json:"showHelp,omitempty"`
}

// -----------------------------------------------------------------------------
// /session

// handleOpen loads or starts today's board and reports whether the "how to
// play" popup should be shown.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	k := s.key(r)
	sess, created, err := s.sessions.get(r.Context(), k)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("open session")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	if created {
		s.sessions.save(r.Context(), k, sess)
		hlog.FromRequest(r).Info().Str("player", k.PlayerID).Str("date", k.Date).Msg("new board")
	}

	seen, err := s.seen.Seen(r.Context(), k.PlayerID, k.Date)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("help flag")
	}
	show := !seen
	writeJSON(w, http.StatusOK, boardRes{Date: k.Date, Board: sess.Snapshot(), ShowHelp: &show})
}

// handleBoard returns the current board, or 404 if the player has not opened
// today's session yet.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	k := s.key(r)
	sess, ok := s.session(w, r, k)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, boardRes{Date: k.Date, Board: sess.Snapshot()})
}

// session resolves the request's live session, writing an error response
// when there is none.
func (s *Server) session(w http.ResponseWriter, r *http.Request, k store.Key) (*game.Session, bool) {
	sess, err := s.sessions.lookup(r.Context(), k)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no_session", "open today's session first")
		return nil, false
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("lookup session")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return nil, false
	}
	return sess, true
}

// -----------------------------------------------------------------------------
// /session/letter, /session/backspace

type letterReq struct {
	Letter string `json:"letter"`
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		writeError(w, http.StatusBadRequest, "invalid_letter", "send exactly one letter")
		return
	}
	letter, _ := utf8.DecodeRuneInString(req.Letter)
	s.edit(w, r, func(sess *game.Session) error { return sess.TypeLetter(letter) })
}

func (s *Server) handleBackspace(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, (*game.Session).Backspace)
}

// edit applies an input-editing operation and returns the board.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, op func(*game.Session) error) {
	k := s.key(r)
	sess, ok := s.session(w, r, k)
	if !ok {
		return
	}
	if err := op(sess); err != nil {
		status, code := rejection(err)
		writeError(w, status, code, err.Error())
		return
	}
	s.sessions.save(r.Context(), k, sess)
	writeJSON(w, http.StatusOK, boardRes{Date: k.Date, Board: sess.Snapshot()})
}

// -----------------------------------------------------------------------------
// /session/submit

// submitRes is returned when an attempt is accepted.
type submitRes struct {
	Event      string                `json:"event"` // accepted | won | lost
	Evaluation game.EvaluatedAttempt `json:"evaluation"`
	Board      game.Snapshot         `json:"board"`
}

// handleSubmit validates the current input with the oracle and records it.
// Rejections leave the board unchanged and carry a stable error code the
// client can turn into a toast.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	k := s.key(r)
	sess, ok := s.session(w, r, k)
	if !ok {
		return
	}

	ev, err := sess.Submit(r.Context(), s.oracle)
	if err != nil {
		status, code := rejection(err)
		hlog.FromRequest(r).Debug().Err(err).Str("code", code).Msg("attempt rejected")
		writeError(w, status, code, err.Error())
		return
	}
	s.sessions.save(r.Context(), k, sess)

	snap := sess.Snapshot()
	event := "accepted"
	switch snap.Outcome {
	case game.OutcomeWon:
		event = "won"
	case game.OutcomeLost:
		event = "lost"
	}
	if event != "accepted" {
		hlog.FromRequest(r).Info().Str("player", k.PlayerID).Str("outcome", event).Int("attempts", len(snap.Attempts)).Msg("game finished")
	}
	writeJSON(w, http.StatusOK, submitRes{Event: event, Evaluation: ev, Board: snap})
}

// -----------------------------------------------------------------------------
// /session/dismiss, /help/dismiss

// handleDismiss closes the post-game dialog; the board stays until tomorrow.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, (*game.Session).DismissResult)
}

func (s *Server) handleHelpDismiss(w http.ResponseWriter, r *http.Request) {
	k := s.key(r)
	if err := s.seen.MarkSeen(r.Context(), k.PlayerID, k.Date); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("mark help seen")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
