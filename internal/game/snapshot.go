package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/wordle-daily/internal/words"
)

// Snapshot is an immutable copy of a session's board, safe to render,
// serialise and persist. Target is only populated once the game is over so
// the word (with its meaning and example) can be shown in the result dialog.
type Snapshot struct {
	Rows         int                    `json:"rows"`
	Cols         int                    `json:"cols"`
	Attempts     []EvaluatedAttempt     `json:"attempts"`
	Input        string                 `json:"input"`
	Keyboard     map[string]LetterState `json:"keyboard"`
	Outcome      Outcome                `json:"outcome"`
	AttemptsLeft int                    `json:"attemptsLeft"`
	Dismissed    bool                   `json:"dismissed"`
	Pending      bool                   `json:"pending"`
	Target       *words.Entry           `json:"target,omitempty"`
}

// Snapshot returns the current board.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := make([]EvaluatedAttempt, len(s.attempts))
	for i, a := range s.attempts {
		attempts[i] = EvaluatedAttempt{Word: a.Word, States: append([]LetterState(nil), a.States...)}
	}
	kb := make(map[string]LetterState, len(s.keyboard))
	for r, st := range s.keyboard {
		kb[string(r)] = st
	}
	snap := Snapshot{
		Rows:         s.rows,
		Cols:         s.cols,
		Attempts:     attempts,
		Input:        string(s.input),
		Keyboard:     kb,
		Outcome:      s.outcome,
		AttemptsLeft: s.rows - len(s.attempts),
		Dismissed:    s.dismissed,
		Pending:      s.pending,
	}
	if s.outcome.Terminal() {
		t := s.target
		snap.Target = &t
	}
	return snap
}

// Row returns the cells of board row i as letter/state pairs, padding unused
// rows and the row being typed with StateEmpty.
func (sn Snapshot) Row(i int) ([]rune, []LetterState) {
	letters := make([]rune, sn.Cols)
	states := make([]LetterState, sn.Cols)
	for c := range states {
		states[c] = StateEmpty
	}
	switch {
	case i < len(sn.Attempts):
		a := sn.Attempts[i]
		for c, r := range a.Word {
			if c < sn.Cols {
				letters[c] = r
				states[c] = a.States[c]
			}
		}
	case i == len(sn.Attempts):
		for c, r := range sn.Input {
			if c < sn.Cols {
				letters[c] = r
			}
		}
	}
	return letters, states
}

var errBadSnapshot = errors.New("invalid snapshot")

// Restore rebuilds a session for target from a persisted snapshot. Attempts are
// re-scored against target rather than trusted, and the keyboard and outcome
// are derived from them, so a restored session always satisfies the same
// invariants as one built through Submit.
func Restore(target words.Entry, snap Snapshot) (*Session, error) {
	s := NewSession(target)
	// Board dimensions are fixed; zero means an older snapshot without them.
	if (snap.Rows != 0 && snap.Rows != s.rows) || (snap.Cols != 0 && snap.Cols != s.cols) {
		return nil, fmt.Errorf("%w: %dx%d board, want %dx%d", errBadSnapshot, snap.Rows, snap.Cols, s.rows, s.cols)
	}
	if len(target.Word) != s.cols {
		return nil, fmt.Errorf("%w: target %q does not fit %d columns", errBadSnapshot, target.Word, s.cols)
	}
	if len(snap.Attempts) > s.rows {
		return nil, fmt.Errorf("%w: %d attempts exceed %d rows", errBadSnapshot, len(snap.Attempts), s.rows)
	}

	seen := make(map[string]struct{}, len(snap.Attempts))
	for _, a := range snap.Attempts {
		if s.outcome.Terminal() {
			return nil, fmt.Errorf("%w: attempt %q after game end", errBadSnapshot, a.Word)
		}
		if len(a.Word) != s.cols || !isUpperAlpha(a.Word) {
			return nil, fmt.Errorf("%w: bad attempt %q", errBadSnapshot, a.Word)
		}
		if _, dup := seen[a.Word]; dup {
			return nil, fmt.Errorf("%w: duplicate attempt %q", errBadSnapshot, a.Word)
		}
		seen[a.Word] = struct{}{}

		ev := EvaluatedAttempt{Word: a.Word, States: Evaluate(a.Word, target.Word)}
		s.attempts = append(s.attempts, ev)
		s.keyboard = s.keyboard.Update(ev)
		if ev.Solved() {
			s.outcome = OutcomeWon
		} else if len(s.attempts) >= s.rows {
			s.outcome = OutcomeLost
		}
	}

	if !s.outcome.Terminal() && len(snap.Input) <= s.cols && isUpperAlpha(snap.Input) {
		s.input = []byte(snap.Input)
	}
	s.dismissed = snap.Dismissed && s.outcome.Terminal()
	return s, nil
}
