package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-daily/internal/game"
	"github.com/robalobadob/wordle-daily/internal/oracle"
	"github.com/robalobadob/wordle-daily/internal/words"
)

var crane = words.Entry{Word: "CRANE", Meaning: "a tall wading bird", Example: "A crane stood in the shallows."}

var known = oracle.Func(func(_ context.Context, w string) (bool, error) {
	switch w {
	case "crane", "slate", "brick", "mound", "plush", "ghost", "wordy":
		return true, nil
	}
	return false, nil
})

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// enter presses enter and delivers the submit result back to the model.
func enter(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	m, _ = update(t, m, cmd())
	return m
}

func TestModel_WinShowsResultDialog(t *testing.T) {
	m := New(game.NewSession(crane), known, "2026-03-03", false)

	m, _ = update(t, m, runes("slate"))
	m = enter(t, m)
	assert.Equal(t, game.OutcomeActive, m.Session().Outcome())
	assert.NotContains(t, m.View(), "You Cracked It!")

	m, _ = update(t, m, runes("crane"))
	m = enter(t, m)
	assert.Equal(t, game.OutcomeWon, m.Session().Outcome())
	view := m.View()
	assert.Contains(t, view, "You Cracked It!")
	assert.Contains(t, view, "a tall wading bird")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "You Cracked It!")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_LostShowsAnswer(t *testing.T) {
	m := New(game.NewSession(crane), known, "2026-03-03", false)
	for _, w := range []string{"slate", "brick", "mound", "plush", "ghost", "wordy"} {
		m, _ = update(t, m, runes(w))
		m = enter(t, m)
	}
	assert.Equal(t, game.OutcomeLost, m.Session().Outcome())
	view := m.View()
	assert.Contains(t, view, "Better Luck Next Time!")
	assert.Contains(t, view, "CRANE")
}

func TestModel_RejectionsFlash(t *testing.T) {
	m := New(game.NewSession(crane), known, "2026-03-03", false)

	m, _ = update(t, m, runes("cra"))
	m = enter(t, m)
	assert.Contains(t, m.View(), "Not enough letters")

	m, _ = update(t, m, runes("zz"))
	m = enter(t, m)
	assert.Contains(t, m.View(), "Word does not exist")

	// The rejected word stays editable.
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = update(t, m, runes("slate"))
	m = enter(t, m)
	m, _ = update(t, m, runes("slate"))
	m = enter(t, m)
	assert.Contains(t, m.View(), "Already guessed this word!")

	id := m.flashID
	m, _ = update(t, m, clearFlashMsg{id: id - 1})
	assert.NotEmpty(t, m.flash, "stale clear is ignored")
	m, _ = update(t, m, clearFlashMsg{id: id})
	assert.Empty(t, m.flash)
}

func TestModel_OracleFailureFlash(t *testing.T) {
	down := oracle.Func(func(context.Context, string) (bool, error) {
		return false, errors.Join(oracle.ErrUnavailable, errors.New("dial tcp: refused"))
	})
	m := New(game.NewSession(crane), down, "2026-03-03", false)
	m, _ = update(t, m, runes("slate"))
	m = enter(t, m)
	assert.Contains(t, m.View(), "Could not check the word")
	assert.Equal(t, game.OutcomeActive, m.Session().Outcome())
}

func TestModel_HelpBlocksInput(t *testing.T) {
	m := New(game.NewSession(crane), known, "2026-03-03", true)
	assert.Contains(t, m.View(), "How To Play")
	assert.False(t, m.HelpDismissed())

	m, _ = update(t, m, runes("a"))
	assert.Empty(t, m.Session().Snapshot().Input)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.HelpDismissed())
	assert.NotContains(t, m.View(), "How To Play")

	m, _ = update(t, m, runes("?"))
	assert.Contains(t, m.View(), "How To Play")
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := New(game.NewSession(crane), known, "2026-03-03", true)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
