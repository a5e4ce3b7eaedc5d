// internal/solver/solver.go
//
// Constraint-based candidate solver.
// Responsibilities:
//   - Own the domain: dictionary words still consistent with every
//     (guess, feedback) constraint applied so far.
//   - Narrow the domain one constraint at a time (Apply / Replay).
//   - Record every applied constraint in the history log.
//
// Notes:
//   - Filtering is a value-returning transformation: the old domain slice is
//     never modified, so snapshots handed to scoring stay valid.
//   - A word is consistent with (guess, fb) iff Evaluate(guess, word)
//     reproduces fb position for position. Repeated letters are therefore
//     checked against remaining counts, exactly like real grading.
//   - A Solver is not safe for concurrent mutation; use one per request.

package solver

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

var (
	// ErrInvalidConstraint reports a guess/feedback whose length does not
	// match the other or the domain's word length.
	ErrInvalidConstraint = errors.New("invalid constraint")

	// ErrEmptyDomain reports scoring against zero remaining candidates:
	// the constraints contradict each other or the dictionary is incomplete.
	ErrEmptyDomain = errors.New("empty domain")

	// ErrInvalidWordLength reports a word length the solver cannot handle.
	ErrInvalidWordLength = errors.New("invalid word length")
)

// Constraint is one (guess, feedback) observation.
type Constraint struct {
	Guess    string
	Feedback feedback.Feedback
}

// Solver holds the working domain and the constraint history.
type Solver struct {
	length    int
	domain    []string
	history   []Constraint
	preferred map[string]struct{}
	workers   int
	logger    zerolog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithLength fixes the word length. Words of any other length are dropped.
func WithLength(n int) Option {
	return func(s *Solver) { s.length = n }
}

// WithPreferred marks words as preferred (popular). The flag is a display
// hint only: it never affects filtering or ordering.
func WithPreferred(words []string) Option {
	return func(s *Solver) {
		for _, w := range words {
			s.preferred[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
		}
	}
}

// WithWorkers bounds the number of goroutines used by Rank.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger overrides the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// New builds a solver from a word list. Words are trimmed and lowercased;
// duplicates and non a–z words are dropped, first occurrence wins, input
// order is kept. Without WithLength the length of the first valid word is
// used.
func New(words []string, opts ...Option) (*Solver, error) {
	s := &Solver{
		preferred: make(map[string]struct{}),
		workers:   runtime.GOMAXPROCS(0),
		logger:    log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	if s.length < 0 || s.length > feedback.MaxCodeLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWordLength, s.length)
	}

	seen := make(map[string]struct{}, len(words))
	s.domain = make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || !isAlpha(w) {
			continue
		}
		if s.length == 0 {
			if len(w) > feedback.MaxCodeLength {
				return nil, fmt.Errorf("%w: %d", ErrInvalidWordLength, len(w))
			}
			s.length = len(w)
		}
		if len(w) != s.length {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		s.domain = append(s.domain, w)
	}
	return s, nil
}

// Apply narrows the domain with one constraint. The constraint is recorded
// in the history even when it removes nothing.
func (s *Solver) Apply(guess string, fb feedback.Feedback) error {
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != len(fb) {
		return fmt.Errorf("%w: guess %q has %d letters, feedback has %d", ErrInvalidConstraint, guess, len(guess), len(fb))
	}
	if len(guess) != s.length {
		return fmt.Errorf("%w: guess %q has %d letters, domain words have %d", ErrInvalidConstraint, guess, len(guess), s.length)
	}

	next, err := Filter(s.domain, guess, fb)
	if err != nil {
		return err
	}
	s.logger.Debug().
		Str("guess", guess).
		Str("pattern", fb.Pattern()).
		Int("before", len(s.domain)).
		Int("after", len(next)).
		Msg("domain reduced")

	s.history = append(s.history, Constraint{Guess: guess, Feedback: fb})
	s.domain = next
	return nil
}

// ApplyPattern parses a G/Y/X pattern for guess and applies it.
func (s *Solver) ApplyPattern(guess, pattern string) error {
	guess = strings.ToLower(strings.TrimSpace(guess))
	fb, err := feedback.ParsePattern(guess, pattern)
	if err != nil {
		if errors.Is(err, feedback.ErrLengthMismatch) {
			return fmt.Errorf("%w: %v", ErrInvalidConstraint, err)
		}
		return err
	}
	return s.Apply(guess, fb)
}

// Replay applies a history in order. It stops at the first bad entry;
// entries before it remain applied.
func (s *Solver) Replay(history []Constraint) error {
	for i, c := range history {
		if err := s.Apply(c.Guess, c.Feedback); err != nil {
			return fmt.Errorf("history entry %d (%q): %w", i, c.Guess, err)
		}
	}
	return nil
}

// Domain returns a copy of the current domain, in dictionary order.
func (s *Solver) Domain() []string {
	out := make([]string, len(s.domain))
	copy(out, s.domain)
	return out
}

// Len is the current domain size.
func (s *Solver) Len() int { return len(s.domain) }

// Length is the word length shared by every domain word.
func (s *Solver) Length() int { return s.length }

// History returns the constraints applied so far, including repeats.
func (s *Solver) History() []Constraint {
	out := make([]Constraint, len(s.history))
	copy(out, s.history)
	return out
}

// IsPreferred reports whether w was passed to WithPreferred.
func (s *Solver) IsPreferred(w string) bool {
	_, ok := s.preferred[w]
	return ok
}

// Filter returns the words of domain consistent with (guess, fb), in the
// same order. domain is not modified.
func Filter(domain []string, guess string, fb feedback.Feedback) ([]string, error) {
	if len(guess) != len(fb) {
		return nil, fmt.Errorf("%w: guess %q has %d letters, feedback has %d", ErrInvalidConstraint, guess, len(guess), len(fb))
	}
	want := fb.Statuses()
	got := make([]feedback.Status, len(guess))

	out := make([]string, 0, len(domain))
	for _, w := range domain {
		if len(w) != len(guess) {
			continue
		}
		feedback.Statuses(guess, w, got)
		if equalStatuses(got, want) {
			out = append(out, w)
		}
	}
	return out, nil
}

// Consistent reports whether candidate could be the answer given that guess
// produced fb.
func Consistent(candidate, guess string, fb feedback.Feedback) bool {
	if len(candidate) != len(guess) || len(guess) != len(fb) {
		return false
	}
	got := make([]feedback.Status, len(guess))
	feedback.Statuses(guess, candidate, got)
	return equalStatuses(got, fb.Statuses())
}

func equalStatuses(a, b []feedback.Status) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
