// internal/feedback/feedback.go
//
// Feedback oracle for the word puzzle.
// Responsibilities:
//   - Grade a guess against an answer with the two-pass, duplicate-aware
//     algorithm (exact matches first, then presence from the leftovers).
//   - Encode feedback canonically (G/Y/X string or base-3 code) so it can
//     be compared and bucketed.
//   - Decode client-supplied patterns back into Feedback.
//
// Notes:
//   - Evaluate is pure: the same (guess, answer) always yields the same
//     feedback, whether grading a real game or simulating inside the solver.
//   - Remaining answer letters are tracked in a count table indexed by byte,
//     decremented per match.

package feedback

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLengthMismatch is returned when a pattern and its guess differ in length.
var ErrLengthMismatch = errors.New("length mismatch")

// Cell is the outcome for one guessed letter.
type Cell struct {
	Letter   byte
	Status   Status
	Position int
}

// Feedback is the ordered per-position outcome of one guess.
type Feedback []Cell

// Evaluate grades guess against answer. Both must have the same length;
// callers check that before calling.
func Evaluate(guess, answer string) Feedback {
	st := make([]Status, len(guess))
	Statuses(guess, answer, st)
	fb := make(Feedback, len(guess))
	for i := range st {
		fb[i] = Cell{Letter: guess[i], Status: st[i], Position: i}
	}
	return fb
}

// Statuses writes the statuses of guess vs. answer into dst, which must be
// at least len(guess) long. It allocates nothing and is the hot path used by
// filtering and scoring.
//
// Pass 1 marks exact matches Correct and counts the unmatched answer letters.
// Pass 2 marks each remaining position Present while its letter still has a
// positive count (decrementing it), otherwise Absent.
func Statuses(guess, answer string, dst []Status) {
	var counts [256]uint8
	n := len(guess)

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			dst[i] = Correct
		} else {
			dst[i] = Absent
			counts[answer[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if dst[i] == Correct {
			continue
		}
		c := guess[i]
		if counts[c] > 0 {
			dst[i] = Present
			counts[c]--
		}
	}
}

// MaxCodeLength is the longest word Code can encode in a uint64.
const MaxCodeLength = 40

// Code returns the base-3 encoding of Evaluate(guess, answer) without
// allocating. Two evaluations of equal-length words have the same code iff
// their patterns are identical. Words must not exceed MaxCodeLength.
func Code(guess, answer string) uint64 {
	var counts [256]uint8
	var hit [MaxCodeLength]bool
	n := len(guess)

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			hit[i] = true
		} else {
			counts[answer[i]]++
		}
	}

	var code uint64
	for i := 0; i < n; i++ {
		s := Absent
		switch {
		case hit[i]:
			s = Correct
		case counts[guess[i]] > 0:
			s = Present
			counts[guess[i]]--
		}
		code = code*3 + uint64(s)
	}
	return code
}

// FromStatuses builds feedback for guess from an explicit status list.
func FromStatuses(guess string, st []Status) (Feedback, error) {
	if len(guess) != len(st) {
		return nil, fmt.Errorf("%w: guess has %d letters, feedback has %d", ErrLengthMismatch, len(guess), len(st))
	}
	fb := make(Feedback, len(st))
	for i, s := range st {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: status %d at position %d", ErrMalformedFeedback, uint8(s), i)
		}
		fb[i] = Cell{Letter: guess[i], Status: s, Position: i}
	}
	return fb, nil
}

// ParsePattern decodes a G/Y/X (or 2/1/0) pattern for guess.
func ParsePattern(guess, pattern string) (Feedback, error) {
	pattern = strings.TrimSpace(pattern)
	if len(guess) != len(pattern) {
		return nil, fmt.Errorf("%w: guess has %d letters, pattern has %d", ErrLengthMismatch, len(guess), len(pattern))
	}
	st := make([]Status, len(pattern))
	for i := 0; i < len(pattern); i++ {
		s, err := ParseSymbol(pattern[i])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		st[i] = s
	}
	return FromStatuses(guess, st)
}

// Pattern returns the canonical G/Y/X encoding.
func (f Feedback) Pattern() string {
	b := make([]byte, len(f))
	for i, c := range f {
		b[i] = c.Status.Symbol()
	}
	return string(b)
}

// Statuses returns the status of each position, in order.
func (f Feedback) Statuses() []Status {
	st := make([]Status, len(f))
	for i, c := range f {
		st[i] = c.Status
	}
	return st
}

// Word returns the guessed word the feedback describes.
func (f Feedback) Word() string {
	b := make([]byte, len(f))
	for i, c := range f {
		b[i] = c.Letter
	}
	return string(b)
}

// Solved reports whether every position is Correct.
func (f Feedback) Solved() bool {
	if len(f) == 0 {
		return false
	}
	for _, c := range f {
		if c.Status != Correct {
			return false
		}
	}
	return true
}

// Equal compares two feedbacks position by position.
func (f Feedback) Equal(o Feedback) bool {
	if len(f) != len(o) {
		return false
	}
	for i := range f {
		if f[i] != o[i] {
			return false
		}
	}
	return true
}

// Keyboard folds a sequence of feedbacks into the best status seen per
// letter (Correct > Present > Absent).
func Keyboard(history []Feedback) map[byte]Status {
	kb := make(map[byte]Status)
	for _, fb := range history {
		for _, c := range fb {
			if cur, ok := kb[c.Letter]; !ok || c.Status > cur {
				kb[c.Letter] = c.Status
			}
		}
	}
	return kb
}
