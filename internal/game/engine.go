// internal/game/engine.go
//
// Guess evaluation for the puzzle engine.
// Evaluate scores one attempt against the target with the classic two-pass
// algorithm: exact matches consume their target letter first, and only the
// letters left over can satisfy a present-elsewhere match.

package game

const (
	// DefaultRows is the number of attempts a session allows.
	DefaultRows = 6
	// DefaultCols is the word length.
	DefaultCols = 5
)

// Evaluate scores attempt against target and returns one LetterState per position.
//
// Pass 1:
//   - Mark exact matches correct; they consume their target letter.
//   - Count the remaining (unconsumed) target letters.
//
// Pass 2 (attempt scanned left to right):
//   - For each non-correct position: if an unconsumed occurrence of the letter
//     remains, mark present and consume it; otherwise mark absent.
//
// So a letter that occurs once in the target is credited at most once, and the
// leftmost extra occurrence in the attempt wins the present mark.
//
// Both inputs must be uppercase A–Z of equal length; the session guarantees this.
func Evaluate(attempt, target string) []LetterState {
	n := len(attempt)
	res := make([]LetterState, n)
	if len(target) != n {
		for i := range res {
			res[i] = StateAbsent
		}
		return res
	}

	// Unconsumed target letters, indexed A..Z.
	var pool [26]int

	for i := 0; i < n; i++ {
		if attempt[i] == target[i] {
			res[i] = StateCorrect
		} else if j := letterIndex(target[i]); j >= 0 {
			pool[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == StateCorrect {
			continue
		}
		if j := letterIndex(attempt[i]); j >= 0 && pool[j] > 0 {
			res[i] = StatePresent
			pool[j]--
		} else {
			res[i] = StateAbsent
		}
	}
	return res
}

// letterIndex maps an uppercase ASCII letter to 0..25, or -1.
func letterIndex(b byte) int {
	if b < 'A' || b > 'Z' {
		return -1
	}
	return int(b - 'A')
}

// isUpperAlpha reports whether s consists only of A–Z.
func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if letterIndex(s[i]) < 0 {
			return false
		}
	}
	return true
}
