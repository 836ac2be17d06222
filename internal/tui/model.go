// Package tui is a terminal front end for the daily puzzle.
//
// The Bubble Tea event loop is the input port: key presses are translated
// into Session operations, and the board is re-rendered from a Snapshot after
// every message. Submissions run as a tea.Cmd so the UI stays responsive while
// the oracle is consulted; reactions such as the result dialog and transient
// messages are driven by the outcome and rejection errors, never by the engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordle-daily/internal/game"
	"github.com/robalobadob/wordle-daily/internal/oracle"
)

// flashTTL is how long a transient message stays on screen.
const flashTTL = 3 * time.Second

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

var (
	tileBase = lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Bold(true).Foreground(lipgloss.Color("15"))
	keyBase  = lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Foreground(lipgloss.Color("15"))

	stateColors = map[game.LetterState]lipgloss.Color{
		game.StateCorrect: lipgloss.Color("#10b981"),
		game.StatePresent: lipgloss.Color("#eab308"),
		game.StateAbsent:  lipgloss.Color("#374151"),
		game.StateEmpty:   lipgloss.Color("#52525b"),
	}

	titleStyle  = lipgloss.NewStyle().Bold(true)
	flashStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f87171"))
	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).Width(52)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Model is the Bubble Tea model for one session.
type Model struct {
	sess     *game.Session
	oracle   game.Validator
	date     string
	timeout  time.Duration
	showHelp bool

	flash   string
	flashID int
	busy    bool
}

// New returns a model playing sess. showHelp opens the "how to play" popup.
func New(sess *game.Session, v game.Validator, date string, showHelp bool) Model {
	return Model{sess: sess, oracle: v, date: date, showHelp: showHelp, timeout: 10 * time.Second}
}

// Session returns the session being played.
func (m Model) Session() *game.Session { return m.sess }

// HelpDismissed reports whether the help popup is closed.
func (m Model) HelpDismissed() bool { return !m.showHelp }

type submittedMsg struct {
	ev  game.EvaluatedAttempt
	err error
}

type clearFlashMsg struct{ id int }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case submittedMsg:
		m.busy = false
		if msg.err != nil {
			return m.setFlash(rejectionText(msg.err))
		}
		return m, nil

	case clearFlashMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.showHelp {
		// Input is blocked while the popup is open.
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		if m.sess.Outcome().Terminal() {
			return m, tea.Quit
		}
		m.busy = true
		return m, m.submit()
	case tea.KeyBackspace:
		_ = m.sess.Backspace()
	case tea.KeyEsc:
		if m.sess.Outcome().Terminal() {
			_ = m.sess.DismissResult()
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r == '?' {
				m.showHelp = true
				return m, nil
			}
			// Non-letters, a full row and a pending submit are all ignored.
			_ = m.sess.TypeLetter(r)
		}
	}
	return m, nil
}

// submit validates the current input off the event loop.
func (m Model) submit() tea.Cmd {
	sess, v, timeout := m.sess, m.oracle, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ev, err := sess.Submit(ctx, v)
		return submittedMsg{ev: ev, err: err}
	}
}

func (m Model) setFlash(text string) (Model, tea.Cmd) {
	m.flashID++
	m.flash = text
	id := m.flashID
	return m, tea.Tick(flashTTL, func(time.Time) tea.Msg { return clearFlashMsg{id: id} })
}

// rejectionText turns a rejection into the message shown to the player.
func rejectionText(err error) string {
	switch {
	case errors.Is(err, game.ErrIncompleteAttempt):
		return "Not enough letters"
	case errors.Is(err, game.ErrDuplicateGuess):
		return "Already guessed this word!"
	case errors.Is(err, oracle.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return "Could not check the word, try again"
	case errors.Is(err, game.ErrUnknownWord):
		return "Word does not exist"
	case errors.Is(err, game.ErrSubmitPending):
		return "Still checking..."
	case errors.Is(err, game.ErrSessionTerminal):
		return "Come back tomorrow for a new word"
	}
	return err.Error()
}

func (m Model) View() string {
	snap := m.sess.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("WORDLE " + m.date))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(helpView(snap.Rows))
		return b.String()
	}

	for row := 0; row < snap.Rows; row++ {
		letters, states := snap.Row(row)
		cells := make([]string, len(letters))
		for i, r := range letters {
			ch := " "
			if r != 0 {
				ch = string(r)
			}
			cells[i] = tileBase.Background(stateColors[states[i]]).Render(ch)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, spaced(cells)...))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for _, r := range row {
			st, ok := snap.Keyboard[string(r)]
			if !ok {
				st = game.StateEmpty
			}
			keys = append(keys, keyBase.Background(stateColors[st]).Render(string(r)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, spaced(keys)...))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(hintStyle.Render("Checking word..."))
	case m.flash != "":
		b.WriteString(flashStyle.Render(m.flash))
	default:
		b.WriteString(hintStyle.Render(fmt.Sprintf("%d attempts left · enter submit · ? help · ctrl+c quit", snap.AttemptsLeft)))
	}
	b.WriteString("\n")

	if snap.Outcome.Terminal() && !snap.Dismissed && snap.Target != nil {
		b.WriteString("\n")
		b.WriteString(resultView(snap))
	}
	return b.String()
}

func spaced(cells []string) []string {
	out := make([]string, 0, 2*len(cells))
	for i, c := range cells {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

func resultView(snap game.Snapshot) string {
	title := "Better Luck Next Time!"
	if snap.Outcome == game.OutcomeWon {
		title = "You Cracked It!"
	}
	t := snap.Target
	body := fmt.Sprintf("%s\n\nWord: %s\nMeaning: %s\nExample: %s\n\nCome back tomorrow to learn a new word!\n%s",
		titleStyle.Render(title), t.Word, t.Meaning, t.Example, hintStyle.Render("esc close · enter quit"))
	return dialogStyle.Render(body)
}

func helpView(rows int) string {
	body := fmt.Sprintf(`%s
Guess the word in %d tries.

  • Each guess must be a valid 5-letter word.
  • The colour of the tiles shows how close your guess was.

%s W is in the word and in the correct spot.
%s I is in the word but in the wrong spot.
%s U is not in the word in any spot.

A new puzzle is released daily at midnight (IST).
%s`,
		titleStyle.Render("How To Play"), rows,
		tileBase.Background(stateColors[game.StateCorrect]).Render("W"),
		tileBase.Background(stateColors[game.StatePresent]).Render("I"),
		tileBase.Background(stateColors[game.StateAbsent]).Render("U"),
		hintStyle.Render("enter or esc to start"))
	return dialogStyle.Render(body)
}
