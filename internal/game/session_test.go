package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-daily/internal/words"
)

type validatorFunc func(ctx context.Context, word string) (bool, error)

func (f validatorFunc) IsValidWord(ctx context.Context, word string) (bool, error) {
	return f(ctx, word)
}

var (
	anyWord = validatorFunc(func(context.Context, string) (bool, error) { return true, nil })
	noWord  = validatorFunc(func(context.Context, string) (bool, error) { return false, nil })
)

var crane = words.Entry{Word: "CRANE", Meaning: "A lifting machine.", Example: "The crane moved."}

func typeWord(t *testing.T, s *Session, w string) {
	t.Helper()
	for _, r := range w {
		require.NoError(t, s.TypeLetter(r))
	}
}

func play(t *testing.T, s *Session, w string) EvaluatedAttempt {
	t.Helper()
	typeWord(t, s, w)
	ev, err := s.Submit(context.Background(), anyWord)
	require.NoError(t, err)
	return ev
}

func TestSession_WinScenario(t *testing.T) {
	s := NewSession(crane)

	ev := play(t, s, "slate")
	assert.Equal(t, "SLATE", ev.Word)
	assert.Equal(t, []LetterState{a, a, c, a, c}, ev.States)
	assert.Equal(t, OutcomeActive, s.Outcome())

	ev = play(t, s, "CRANE")
	assert.True(t, ev.Solved())
	assert.Equal(t, OutcomeWon, s.Outcome())

	snap := s.Snapshot()
	assert.Len(t, snap.Attempts, 2)
	assert.Equal(t, StateCorrect, snap.Keyboard["E"])
	assert.Equal(t, StateAbsent, snap.Keyboard["S"])
	assert.Equal(t, 4, snap.AttemptsLeft)
	require.NotNil(t, snap.Target)
	assert.Equal(t, crane, *snap.Target)
}

func TestSession_LostAfterAllRows(t *testing.T) {
	s := NewSession(crane)
	for i, w := range []string{"SLATE", "BRICK", "MOUND", "PLUSH", "GHOST", "WORDY"} {
		assert.Equal(t, OutcomeActive, s.Outcome(), "before attempt %d", i+1)
		play(t, s, w)
	}
	assert.Equal(t, OutcomeLost, s.Outcome())

	_, err := s.Submit(context.Background(), anyWord)
	require.ErrorIs(t, err, ErrSessionTerminal)
	require.ErrorIs(t, s.TypeLetter('A'), ErrSessionTerminal)
	require.ErrorIs(t, s.Backspace(), ErrSessionTerminal)
	assert.Len(t, s.Snapshot().Attempts, DefaultRows)
}

func TestSession_WinOnLastRow(t *testing.T) {
	s := NewSession(crane)
	for _, w := range []string{"SLATE", "BRICK", "MOUND", "PLUSH", "GHOST"} {
		play(t, s, w)
	}
	play(t, s, "CRANE")
	assert.Equal(t, OutcomeWon, s.Outcome())
}

func TestSession_TypingAndBackspace(t *testing.T) {
	s := NewSession(crane)

	require.NoError(t, s.Backspace(), "backspace on empty input is a no-op")
	typeWord(t, s, "crane")
	require.NoError(t, s.TypeLetter('x'), "typing into a full row is a no-op")
	assert.Equal(t, "CRANE", s.Snapshot().Input)

	require.NoError(t, s.Backspace())
	assert.Equal(t, "CRAN", s.Snapshot().Input)

	require.ErrorIs(t, s.TypeLetter('1'), ErrInvalidLetter)
	require.ErrorIs(t, s.TypeLetter('é'), ErrInvalidLetter)
	assert.Equal(t, "CRAN", s.Snapshot().Input)
}

func TestSession_IncompleteAttempt(t *testing.T) {
	s := NewSession(crane)
	typeWord(t, s, "cra")

	_, err := s.Submit(context.Background(), anyWord)
	require.ErrorIs(t, err, ErrIncompleteAttempt)

	snap := s.Snapshot()
	assert.Equal(t, "CRA", snap.Input)
	assert.Empty(t, snap.Attempts)
}

func TestSession_DuplicateGuessDoesNotConsumeRow(t *testing.T) {
	s := NewSession(crane)
	play(t, s, "SLATE")

	calls := 0
	counting := validatorFunc(func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})
	typeWord(t, s, "SLATE")
	_, err := s.Submit(context.Background(), counting)
	require.ErrorIs(t, err, ErrDuplicateGuess)
	assert.Zero(t, calls, "duplicates never reach the oracle")

	snap := s.Snapshot()
	assert.Len(t, snap.Attempts, 1)
	assert.Equal(t, DefaultRows-1, snap.AttemptsLeft)
	assert.Equal(t, "SLATE", snap.Input)
}

func TestSession_UnknownWordPreservesInput(t *testing.T) {
	s := NewSession(crane)
	typeWord(t, s, "XQZVW")

	_, err := s.Submit(context.Background(), noWord)
	require.ErrorIs(t, err, ErrUnknownWord)

	snap := s.Snapshot()
	assert.Equal(t, "XQZVW", snap.Input)
	assert.Empty(t, snap.Attempts)
	assert.Empty(t, snap.Keyboard)
	assert.False(t, snap.Pending)
}

func TestSession_OracleFailureIsUnknownWord(t *testing.T) {
	s := NewSession(crane)
	typeWord(t, s, "SLATE")
	boom := errors.New("dial tcp: timeout")

	_, err := s.Submit(context.Background(), validatorFunc(func(context.Context, string) (bool, error) {
		return false, boom
	}))
	require.ErrorIs(t, err, ErrUnknownWord)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "SLATE", s.Snapshot().Input)

	// The player can retry once the oracle recovers.
	_, err = s.Submit(context.Background(), anyWord)
	require.NoError(t, err)
}

func TestSession_ValidatorSeesLowercaseWord(t *testing.T) {
	s := NewSession(crane)
	typeWord(t, s, "Slate")
	var got string
	_, err := s.Submit(context.Background(), validatorFunc(func(_ context.Context, w string) (bool, error) {
		got = w
		return true, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "slate", got)
}

func TestSession_OneSubmitInFlight(t *testing.T) {
	s := NewSession(crane)
	typeWord(t, s, "SLATE")

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := validatorFunc(func(context.Context, string) (bool, error) {
		close(entered)
		<-release
		return true, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), slow)
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("validator not called")
	}

	assert.True(t, s.Pending())
	_, err := s.Submit(context.Background(), anyWord)
	require.ErrorIs(t, err, ErrSubmitPending)
	require.ErrorIs(t, s.TypeLetter('A'), ErrSubmitPending)
	require.ErrorIs(t, s.Backspace(), ErrSubmitPending)
	assert.Equal(t, "SLATE", s.Snapshot().Input)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Pending())
	assert.Len(t, s.Snapshot().Attempts, 1)
	assert.Equal(t, "", s.Snapshot().Input)
}

func TestSession_CancelledValidationResolvesPending(t *testing.T) {
	s := NewSession(crane)
	typeWord(t, s, "SLATE")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Submit(ctx, validatorFunc(func(ctx context.Context, _ string) (bool, error) {
		return false, ctx.Err()
	}))
	require.ErrorIs(t, err, ErrUnknownWord)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.Pending())
	require.NoError(t, s.Backspace())
}

func TestSession_DismissResult(t *testing.T) {
	s := NewSession(crane)
	require.ErrorIs(t, s.DismissResult(), ErrNotFinished)

	play(t, s, "CRANE")
	require.NoError(t, s.DismissResult())

	snap := s.Snapshot()
	assert.True(t, snap.Dismissed)
	assert.Equal(t, OutcomeWon, snap.Outcome)
	assert.Len(t, snap.Attempts, 1, "dismissing keeps the board")
	require.ErrorIs(t, s.TypeLetter('A'), ErrSessionTerminal)
}

func TestSession_TargetHiddenWhileActive(t *testing.T) {
	s := NewSession(crane)
	assert.Nil(t, s.Snapshot().Target)
}

func TestSnapshot_Row(t *testing.T) {
	s := NewSession(crane)
	play(t, s, "SLATE")
	typeWord(t, s, "CR")
	snap := s.Snapshot()

	letters, states := snap.Row(0)
	assert.Equal(t, []rune("SLATE"), letters)
	assert.Equal(t, []LetterState{a, a, c, a, c}, states)

	letters, states = snap.Row(1)
	assert.Equal(t, []rune{'C', 'R', 0, 0, 0}, letters)
	assert.Equal(t, []LetterState{StateEmpty, StateEmpty, StateEmpty, StateEmpty, StateEmpty}, states)

	letters, _ = snap.Row(5)
	assert.Equal(t, []rune{0, 0, 0, 0, 0}, letters)
}

func TestRestore(t *testing.T) {
	s := NewSession(crane)
	play(t, s, "SLATE")
	typeWord(t, s, "CR")
	snap := s.Snapshot()

	r, err := Restore(crane, snap)
	require.NoError(t, err)
	assert.Equal(t, snap, r.Snapshot())

	// Continue playing on the restored session.
	require.NoError(t, r.TypeLetter('A'))
	require.NoError(t, r.TypeLetter('N'))
	require.NoError(t, r.TypeLetter('E'))
	_, err = r.Submit(context.Background(), anyWord)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, r.Outcome())

	won, err := Restore(crane, r.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, won.Outcome())
	assert.NotNil(t, won.Snapshot().Target)
}

func TestRestore_RejectsCorruptBoards(t *testing.T) {
	cases := map[string]Snapshot{
		"duplicate":   {Attempts: []EvaluatedAttempt{{Word: "SLATE"}, {Word: "SLATE"}}},
		"bad word":    {Attempts: []EvaluatedAttempt{{Word: "sl4te"}}},
		"after win":   {Attempts: []EvaluatedAttempt{{Word: "CRANE"}, {Word: "SLATE"}}},
		"too many":    {Attempts: []EvaluatedAttempt{{Word: "SLATE"}, {Word: "BRICK"}, {Word: "MOUND"}, {Word: "PLUSH"}, {Word: "GHOST"}, {Word: "WORDY"}, {Word: "LEVEL"}}},
		"fewer rows":  {Rows: 1},
		"extra rows":  {Rows: DefaultRows + 1, Attempts: []EvaluatedAttempt{{Word: "SLATE"}}},
		"wrong width": {Cols: 4},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Restore(crane, snap)
			require.ErrorIs(t, err, errBadSnapshot)
		})
	}
}

func TestRestore_RescoresAgainstTarget(t *testing.T) {
	snap := Snapshot{Attempts: []EvaluatedAttempt{{Word: "SLATE", States: []LetterState{c, c, c, c, c}}}}
	r, err := Restore(crane, snap)
	require.NoError(t, err)
	assert.Equal(t, OutcomeActive, r.Outcome())
	assert.Equal(t, []LetterState{a, a, c, a, c}, r.Snapshot().Attempts[0].States)
}
