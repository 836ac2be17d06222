// internal/game/types.go
//
// Core type definitions for the puzzle engine.
// Defines:
//   - LetterState: per-letter feedback (empty/absent/present/correct).
//   - EvaluatedAttempt: one accepted attempt paired with its feedback.
//   - Outcome: session lifecycle state (active/won/lost).
//   - The rejection errors returned by Session operations.

package game

import "errors"

// LetterState is the feedback classification for a single letter.
// States are ordered by how informative they are:
//
//	empty < absent < present < correct
//
// The ordering drives keyboard aggregation; see Keyboard.Update.
type LetterState string

const (
	StateEmpty   LetterState = "empty"
	StateAbsent  LetterState = "absent"
	StatePresent LetterState = "present"
	StateCorrect LetterState = "correct"
)

// rank maps a state onto its position in the informativeness order.
// Unknown values rank with empty.
func (s LetterState) rank() int {
	switch s {
	case StateAbsent:
		return 1
	case StatePresent:
		return 2
	case StateCorrect:
		return 3
	}
	return 0
}

// Outcome is the coarse session state. Won and Lost are terminal.
type Outcome string

const (
	OutcomeActive Outcome = "active"
	OutcomeWon    Outcome = "won"
	OutcomeLost   Outcome = "lost"
)

// Terminal reports whether the outcome accepts no further input.
func (o Outcome) Terminal() bool { return o == OutcomeWon || o == OutcomeLost }

// EvaluatedAttempt is an accepted attempt and its per-position feedback.
// Word is uppercase; len(States) == len(Word).
type EvaluatedAttempt struct {
	Word   string        `json:"word"`
	States []LetterState `json:"states"`
}

// Solved reports whether every position is correct.
func (a EvaluatedAttempt) Solved() bool {
	if len(a.States) == 0 {
		return false
	}
	for _, s := range a.States {
		if s != StateCorrect {
			return false
		}
	}
	return true
}

// Rejections. None of these invalidate the session; the caller is expected to
// surface them as a transient notification.
var (
	ErrIncompleteAttempt = errors.New("not enough letters")
	ErrDuplicateGuess    = errors.New("already guessed this word")
	ErrUnknownWord       = errors.New("word does not exist")
	ErrSessionTerminal   = errors.New("game finished")
	ErrSubmitPending     = errors.New("submission already in progress")
	ErrInvalidLetter     = errors.New("invalid letter")
	ErrNotFinished       = errors.New("game still in progress")
)
