// internal/feedback/status.go
//
// Per-letter outcome classification.
// Defines:
//   - Status: closed enumeration (Absent/Present/Correct).
//   - Symbol codes used by the canonical pattern encoding (X/Y/G).
//   - Text/JSON encoding using the status names.

package feedback

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedFeedback is returned when a status symbol or name is outside
// the three-valued alphabet.
var ErrMalformedFeedback = errors.New("malformed feedback")

// Status is the outcome for a single guessed letter.
//   - Correct: right letter, right position.
//   - Present: letter is in the answer, but elsewhere.
//   - Absent:  letter is not in the answer at the needed multiplicity.
type Status uint8

const (
	Absent Status = iota
	Present
	Correct
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Correct:
		return "correct"
	case Present:
		return "present"
	case Absent:
		return "absent"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Symbol returns the single-character pattern code: G, Y or X.
func (s Status) Symbol() byte {
	switch s {
	case Correct:
		return 'G'
	case Present:
		return 'Y'
	}
	return 'X'
}

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool { return s <= Correct }

// ParseSymbol decodes a pattern symbol. Accepts G/Y/X in either case and
// the digits 2/1/0.
func ParseSymbol(b byte) (Status, error) {
	switch b {
	case 'G', 'g', '2':
		return Correct, nil
	case 'Y', 'y', '1':
		return Present, nil
	case 'X', 'x', '0':
		return Absent, nil
	}
	return Absent, fmt.Errorf("%w: symbol %q", ErrMalformedFeedback, b)
}

// ParseStatus decodes a status name. The colour names used by the web
// client (green/yellow/grey) are accepted as aliases.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "correct", "green", "hit":
		return Correct, nil
	case "present", "yellow":
		return Present, nil
	case "absent", "grey", "gray", "miss":
		return Absent, nil
	}
	if len(name) == 1 {
		return ParseSymbol(name[0])
	}
	return Absent, fmt.Errorf("%w: status %q", ErrMalformedFeedback, name)
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: status %d", ErrMalformedFeedback, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name or symbol.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
