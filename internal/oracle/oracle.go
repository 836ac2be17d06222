// Package oracle answers "is this a real word?" for the puzzle engine.
//
// Implementations:
//   - Dictionary: remote lookup against a dictionary HTTP API.
//   - List:       offline lookup in the embedded guess list.
//   - Cached:     per-process cache in front of another oracle.
//
// All of them satisfy game.Validator. A returned error means the answer is
// unknown (for example the API was unreachable); the engine treats it as an
// unknown word but callers can tell the two apart with errors.Is(err, ErrUnavailable).
package oracle

import (
	"context"
	"errors"

	"github.com/robalobadob/wordle-daily/internal/words"
)

// ErrUnavailable wraps transport and upstream failures.
var ErrUnavailable = errors.New("word lookup unavailable")

// Oracle is the capability consumed by game.Session.Submit.
type Oracle interface {
	IsValidWord(ctx context.Context, word string) (bool, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context, word string) (bool, error)

func (f Func) IsValidWord(ctx context.Context, word string) (bool, error) { return f(ctx, word) }

// List validates against the offline guess list loaded by words.Init.
type List struct{}

func (List) IsValidWord(_ context.Context, word string) (bool, error) {
	return words.IsAllowed(word), nil
}
