package solver

import (
	"fmt"
	"math"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Score is the Shannon entropy, in bits, of the feedback patterns candidate
// would produce against every word of the current domain. Higher means the
// guess splits the domain more evenly.
func (s *Solver) Score(candidate string) (float64, error) {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if len(candidate) != s.length {
		return 0, fmt.Errorf("%w: candidate %q has %d letters, domain words have %d", ErrInvalidConstraint, candidate, len(candidate), s.length)
	}
	if len(s.domain) == 0 {
		return 0, ErrEmptyDomain
	}
	return entropy(candidate, s.domain), nil
}

// entropy buckets domain by pattern code and returns
// H = log2(n) - (1/n)·Σ c·log2(c), which equals -Σ (c/n)·log2(c/n).
func entropy(candidate string, domain []string) float64 {
	n := len(domain)
	if n <= 1 {
		return 0
	}
	buckets := make(map[uint64]int, n)
	for _, w := range domain {
		buckets[feedback.Code(candidate, w)]++
	}

	var sum float64
	for _, c := range buckets {
		if c > 1 {
			fc := float64(c)
			sum += fc * math.Log2(fc)
		}
	}
	h := math.Log2(float64(n)) - sum/float64(n)
	if h < 0 {
		return 0
	}
	return h
}
