// internal/game/session.go
//
// Session is the state machine for one day's puzzle.
// Responsibilities:
//   - Accumulate typed letters into the current input (TypeLetter/Backspace).
//   - Validate and score submissions (Submit), consulting an injected Validator.
//   - Track keyboard aggregate state and the active → won/lost transition.
//
// Notes:
//   - All mutation happens under s.mu. Submit drops the lock while the
//     validator runs and holds a pending flag instead; while it is set every
//     other mutating call is rejected with ErrSubmitPending.
//   - Recording an attempt and transitioning the outcome happen in one
//     critical section, so a rejected or failed submit changes nothing.

package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/robalobadob/wordle-daily/internal/words"
)

// Validator answers whether a word is a real word. Implementations live in the
// oracle package; an error is treated as "unknown word".
type Validator interface {
	IsValidWord(ctx context.Context, word string) (bool, error)
}

// Session holds the state of a single daily game.
type Session struct {
	mu sync.Mutex

	target    words.Entry
	rows      int
	cols      int
	attempts  []EvaluatedAttempt
	input     []byte
	keyboard  Keyboard
	outcome   Outcome
	pending   bool
	dismissed bool
}

// NewSession starts an active session for target with the default 6x5 board.
// The target is fixed for the lifetime of the session.
func NewSession(target words.Entry) *Session {
	return &Session{
		target:   target,
		rows:     DefaultRows,
		cols:     DefaultCols,
		keyboard: Keyboard{},
		outcome:  OutcomeActive,
	}
}

// Outcome reports the current lifecycle state.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Target returns the session's target entry.
func (s *Session) Target() words.Entry { return s.target }

// TypeLetter appends r (upper-cased) to the current input.
// It is a no-op when the input already holds a full word.
func (s *Session) TypeLetter(r rune) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	r = unicode.ToUpper(r)
	if r < 'A' || r > 'Z' {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, r)
	}
	if len(s.input) >= s.cols {
		return nil
	}
	s.input = append(s.input, byte(r))
	return nil
}

// Backspace removes the last typed letter. No-op on empty input.
func (s *Session) Backspace() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	if len(s.input) > 0 {
		s.input = s.input[:len(s.input)-1]
	}
	return nil
}

// editableLocked rejects edits on terminal or validating sessions.
func (s *Session) editableLocked() error {
	if s.outcome.Terminal() {
		return ErrSessionTerminal
	}
	if s.pending {
		return ErrSubmitPending
	}
	return nil
}

// Submit validates the current input and, if accepted, records it.
//
// Rejections (state unchanged, input preserved):
//   - ErrSessionTerminal:   game already won or lost.
//   - ErrSubmitPending:     another submit is still validating.
//   - ErrIncompleteAttempt: input shorter than the word length.
//   - ErrDuplicateGuess:    word already attempted this session.
//   - ErrUnknownWord:       validator said no, or failed (its error is wrapped).
//
// On acceptance the attempt is scored, appended, folded into the keyboard and
// the input is cleared; then the session becomes Won on an all-correct attempt,
// Lost when the last row is used, or stays Active.
func (s *Session) Submit(ctx context.Context, v Validator) (EvaluatedAttempt, error) {
	s.mu.Lock()
	if s.outcome.Terminal() {
		s.mu.Unlock()
		return EvaluatedAttempt{}, ErrSessionTerminal
	}
	if s.pending {
		s.mu.Unlock()
		return EvaluatedAttempt{}, ErrSubmitPending
	}
	if len(s.input) != s.cols {
		s.mu.Unlock()
		return EvaluatedAttempt{}, ErrIncompleteAttempt
	}
	word := string(s.input)
	for _, a := range s.attempts {
		if a.Word == word {
			s.mu.Unlock()
			return EvaluatedAttempt{}, ErrDuplicateGuess
		}
	}
	s.pending = true
	s.mu.Unlock()

	ok, err := v.IsValidWord(ctx, strings.ToLower(word))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		return EvaluatedAttempt{}, fmt.Errorf("%w: %w", ErrUnknownWord, err)
	}
	if !ok {
		return EvaluatedAttempt{}, ErrUnknownWord
	}

	ev := EvaluatedAttempt{Word: word, States: Evaluate(word, s.target.Word)}
	s.attempts = append(s.attempts, ev)
	s.keyboard = s.keyboard.Update(ev)
	s.input = s.input[:0]

	if ev.Solved() {
		s.outcome = OutcomeWon
	} else if len(s.attempts) >= s.rows {
		s.outcome = OutcomeLost
	}
	return ev, nil
}

// DismissResult records that the player closed the post-game dialog.
// It does not start a new game: the board stays as it is until the next day.
func (s *Session) DismissResult() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.outcome.Terminal() {
		return ErrNotFinished
	}
	s.dismissed = true
	return nil
}

// Pending reports whether a submit is currently validating.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
