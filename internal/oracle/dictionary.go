package oracle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDictionaryURL is the public Free Dictionary API.
const DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"

// Dictionary looks words up in a dictionary HTTP API: GET {BaseURL}{word}.
// 200 means the word exists and 404 means it does not. Any other status, and
// any transport error or timeout, is reported as ErrUnavailable.
type Dictionary struct {
	BaseURL string
	Client  *http.Client
}

// NewDictionary returns a Dictionary with a per-request timeout.
func NewDictionary(baseURL string, timeout time.Duration) *Dictionary {
	if baseURL == "" {
		baseURL = DefaultDictionaryURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Dictionary{BaseURL: baseURL, Client: &http.Client{Timeout: timeout}}
}

func (d *Dictionary) IsValidWord(ctx context.Context, word string) (bool, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+url.PathEscape(word), nil)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := d.Client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("dictionary lookup failed")
		return false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	log.Debug().Str("word", word).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("dictionary lookup")

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}
