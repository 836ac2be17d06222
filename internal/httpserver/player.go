// internal/httpserver/player.go
//
// Player identity for guests.
// Every request is attributed to a player id carried in a signed JWT, either
// in the player cookie or an "Authorization: Bearer" header (terminal and
// scripted clients). Missing or invalid tokens are replaced by a fresh id, so
// routes never 401; the id only scopes the day's board and help flag.

package httpserver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/hkdf"
)

const (
	playerCookieName = "wordle_player"
	playerHeader     = "X-Player-Token"
	playerKeyInfo    = "wordle-daily player token v1"
)

// ctxPlayerKey is the context key type for the player id.
type ctxPlayerKey struct{}

// playerID returns the id placed on the request by withPlayer.
func playerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey{}).(string)
	return id
}

// PlayerTokens issues and verifies player tokens.
type PlayerTokens struct {
	key []byte
	ttl time.Duration
}

// NewPlayerTokens derives the HS256 signing key from secret with HKDF so the
// configured secret is never used as a key directly.
func NewPlayerTokens(secret string, ttl time.Duration) (*PlayerTokens, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(playerKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive player key: %w", err)
	}
	if ttl <= 0 {
		ttl = 180 * 24 * time.Hour
	}
	return &PlayerTokens{key: key, ttl: ttl}, nil
}

// Issue signs a token for id and returns it with its expiry.
func (p *PlayerTokens) Issue(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(p.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(p.key)
	return ss, exp, err
}

// Verify checks the signature and expiry and returns the player id.
func (p *PlayerTokens) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return p.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("bad subject: %w", err)
	}
	return claims.Subject, nil
}

// withPlayer attaches a player id to every request, issuing a new one (and
// setting the cookie plus X-Player-Token header) when none is presented.
func (s *Server) withPlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if tok := bearerOrCookie(r); tok != "" {
				if v, err := s.players.Verify(tok); err == nil {
					id = v
				} else {
					log.Debug().Err(err).Msg("discarding player token")
				}
			}
			if id == "" {
				id = uuid.NewString()
				tok, exp, err := s.players.Issue(id)
				if err != nil {
					log.Error().Err(err).Msg("sign player token")
					writeError(w, http.StatusInternalServerError, "sign_failed", "could not issue player token")
					return
				}
				s.setPlayerCookie(w, tok, exp)
				w.Header().Set(playerHeader, tok)
			}
			ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// setPlayerCookie writes the player cookie with appropriate security attributes.
func (s *Server) setPlayerCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cookieSecure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the player cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}
