package solver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultCandidateCap bounds how many domain words Best scores.
const DefaultCandidateCap = 100

// Suggestion is one ranked candidate.
type Suggestion struct {
	Word      string  `json:"word"`
	Entropy   float64 `json:"entropy"`
	Preferred bool    `json:"preferred"`
}

type rankConfig struct {
	progress func()
}

// RankOption configures a single Rank call.
type RankOption func(*rankConfig)

// WithProgress registers a callback invoked once per scored candidate.
// It may be called from several goroutines.
func WithProgress(fn func()) RankOption {
	return func(c *rankConfig) { c.progress = fn }
}

// Rank scores candidates against a snapshot of the current domain and
// returns them sorted by descending entropy. Equal scores keep the order in
// which candidates were given. The result is truncated to limit after
// sorting; limit <= 0 keeps everything. A nil candidates slice ranks the
// current domain.
//
// Scoring runs on up to the solver's worker count goroutines. Callers bound
// latency by capping len(candidates) or by cancelling ctx.
func (s *Solver) Rank(ctx context.Context, candidates []string, limit int, opts ...RankOption) ([]Suggestion, error) {
	var cfg rankConfig
	for _, o := range opts {
		o(&cfg)
	}
	if len(s.domain) == 0 {
		return nil, ErrEmptyDomain
	}

	// Apply replaces s.domain rather than editing it, so this slice stays
	// frozen for the whole batch.
	domain := s.domain
	if candidates == nil {
		candidates = domain
	}

	out := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if len(c) != s.length {
			return nil, fmt.Errorf("%w: candidate %q has %d letters, domain words have %d", ErrInvalidConstraint, c, len(c), s.length)
		}
		out[i] = Suggestion{Word: c, Preferred: s.IsPreferred(c)}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range out {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i].Entropy = entropy(out[i].Word, domain)
			if cfg.progress != nil {
				cfg.progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Entropy > out[b].Entropy })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Best picks the next guess: with two or fewer candidates left it returns
// the first one, otherwise the highest-entropy word among the first
// DefaultCandidateCap domain words.
func (s *Solver) Best(ctx context.Context) (Suggestion, error) {
	switch n := len(s.domain); {
	case n == 0:
		return Suggestion{}, ErrEmptyDomain
	case n <= 2:
		w := s.domain[0]
		e := entropy(w, s.domain)
		return Suggestion{Word: w, Entropy: e, Preferred: s.IsPreferred(w)}, nil
	}

	candidates := s.domain
	if len(candidates) > DefaultCandidateCap {
		candidates = candidates[:DefaultCandidateCap]
	}
	ranked, err := s.Rank(ctx, candidates, 1)
	if err != nil {
		return Suggestion{}, err
	}
	return ranked[0], nil
}
