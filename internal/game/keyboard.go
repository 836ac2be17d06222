package game

// Keyboard holds the best-known state per letter across a session.
// Letters that were never part of an accepted attempt are absent from the map
// and render as StateEmpty.
type Keyboard map[rune]LetterState

// State returns the recorded state for r, or StateEmpty.
func (k Keyboard) State(r rune) LetterState {
	if s, ok := k[r]; ok {
		return s
	}
	return StateEmpty
}

// Update folds one evaluated attempt into the keyboard and returns a new map;
// the receiver is not modified.
//
// A letter seen for the first time takes the position's state. After that it is
// only ever upgraded (absent -> present -> correct), never downgraded, so
// applying the same attempt twice is the same as applying it once.
func (k Keyboard) Update(a EvaluatedAttempt) Keyboard {
	out := make(Keyboard, len(k)+len(a.Word))
	for r, s := range k {
		out[r] = s
	}
	for i, r := range a.Word {
		if i >= len(a.States) {
			break
		}
		next := a.States[i]
		prev, seen := out[r]
		if !seen || next.rank() > prev.rank() {
			out[r] = next
		}
	}
	return out
}

// clone returns a shallow copy.
func (k Keyboard) clone() Keyboard {
	out := make(Keyboard, len(k))
	for r, s := range k {
		out[r] = s
	}
	return out
}
