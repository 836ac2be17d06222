// internal/words/words.go
//
// Provides the curated word list for the puzzle.
//
// Responsibilities:
//   - Load the answer list (word + meaning + example) from an
//     environment-provided JSON file or fall back to the embedded default.
//   - Maintain a guess set for the offline oracle (allowed ∪ answers).
//   - Supply lookups like Entries, IsAllowed and Stats.
//
// Initialization behavior (Init):
//  1. If a words file is configured (WORDS_FILE), load answers from that JSON file.
//  2. Otherwise use the embedded assets/words.json.
//  3. The offline guess list always comes from assets/allowed.txt.
//
// Constraints:
//   - Words must be 5 letters A–Z; they are normalised to uppercase.
//   - Order is preserved: the daily selector indexes into it.
//   - Initialization is run once (sync.Once).

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-daily/assets"
)

// Length is the number of letters in every word.
const Length = 5

// Entry is one curated answer.
type Entry struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Example string `json:"example"`
}

var (
	initOnce   sync.Once
	entries    []Entry
	allowedSet map[string]struct{} // answers ∪ offline guesses
	initialErr error
)

// Init loads the word lists exactly once. path, when non-empty, replaces the
// embedded answer list. Returns an error if the answer list ends up empty.
func Init(path string) error {
	initOnce.Do(func() {
		raw, src, err := readAnswers(path)
		if err != nil {
			initialErr = err
			return
		}
		list, err := Parse(raw)
		if err != nil {
			initialErr = fmt.Errorf("words: parse %s: %w", src, err)
			return
		}
		if len(list) == 0 {
			initialErr = errors.New("words: answer list is empty")
			return
		}

		guesses, err := assets.AllowedList()
		if err != nil {
			initialErr = fmt.Errorf("words: allowed list: %w", err)
			return
		}

		entries = list
		allowedSet = make(map[string]struct{}, len(guesses)+len(list))
		for _, w := range guesses {
			if valid(w) {
				allowedSet[w] = struct{}{}
			}
		}
		for _, e := range list {
			allowedSet[e.Word] = struct{}{}
		}
		log.Debug().Str("source", src).Int("answers", len(entries)).Int("allowed", len(allowedSet)).Msg("word lists loaded")
	})
	return initialErr
}

// readAnswers returns the answer JSON and a label for where it came from.
func readAnswers(path string) ([]byte, string, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("words: read %s: %w", path, err)
		}
		return b, path, nil
	}
	b, err := assets.WordsJSON()
	return b, "embedded", err
}

// Parse decodes a JSON array of entries, normalising words to uppercase and
// dropping entries whose word is not Length letters A–Z.
func Parse(raw []byte) ([]Entry, error) {
	var in []Entry
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		e.Word = strings.ToUpper(strings.TrimSpace(e.Word))
		if !valid(e.Word) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// valid reports whether w is Length uppercase ASCII letters.
func valid(w string) bool {
	if len(w) != Length {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

// Entries returns the curated answer list in its canonical order.
func Entries() []Entry {
	return entries
}

// IsAllowed reports whether w is in the offline guess set (case-insensitive).
func IsAllowed(w string) bool {
	_, ok := allowedSet[strings.ToUpper(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func Stats() (answersCount int, allowedCount int) {
	return len(entries), len(allowedSet)
}
