// internal/httpserver/routes_solve.go
//
// POST /api/solve/analyze
//
// Builds a solver from the (lang, length) dictionary, replays the client's
// (word, feedback) history, and ranks the first SOLVE_CANDIDATE_LIMIT
// remaining words by entropy. Scores are mapped to a 1–99 display scale
// here; the solver itself only deals in raw bits.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/stats"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// displayMultiplier maps entropy bits onto the 1–99 display scale.
const displayMultiplier = 18

type analyzeEntry struct {
	Word     string          `json:"word"`
	Feedback json.RawMessage `json:"feedback"` // "GYXXG" or ["correct","present",...]
}

type analyzeReq struct {
	Length  int            `json:"length"`
	Lang    string         `json:"lang"`
	History []analyzeEntry `json:"history"`
}

type suggestion struct {
	Word      string  `json:"word"`
	Score     int     `json:"score"`
	Entropy   float64 `json:"entropy"`
	IsPopular bool    `json:"is_popular"`
}

type analyzeRes struct {
	Count       int                        `json:"count"`
	Suggestions []suggestion               `json:"suggestions"`
	Keyboard    map[string]feedback.Status `json:"keyboard"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	var req analyzeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Length == 0 {
		req.Length = 5
	}

	dict, err := s.words.Dictionary(req.Lang, req.Length)
	if err != nil {
		lang := req.Lang
		if lang == "" {
			lang = words.DefaultLanguage
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Dictionary not found for %s length %d", lang, req.Length))
		return
	}

	history, err := parseHistory(req.History)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sv, err := solver.New(dict.Words(),
		solver.WithLength(dict.Length),
		solver.WithPreferred(dict.Popular()),
		solver.WithWorkers(s.cfg.Workers),
		solver.WithLogger(*logger),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sv.Replay(history); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fbs := make([]feedback.Feedback, len(history))
	for i, c := range history {
		fbs[i] = c.Feedback
	}
	res := analyzeRes{Count: sv.Len(), Suggestions: []suggestion{}, Keyboard: keyboard(fbs)}

	var top solver.Suggestion
	if sv.Len() > 0 {
		candidates := sv.Domain()
		if len(candidates) > s.cfg.CandidateLimit {
			candidates = candidates[:s.cfg.CandidateLimit]
		}
		ranked, err := sv.Rank(r.Context(), candidates, s.cfg.ResultLimit)
		if err != nil {
			logger.Error().Err(err).Msg("rank candidates")
			writeError(w, http.StatusInternalServerError, "rank_failed")
			return
		}
		for _, sg := range ranked {
			res.Suggestions = append(res.Suggestions, suggestion{
				Word:      strings.ToUpper(sg.Word),
				Score:     displayScore(sg.Entropy),
				Entropy:   sg.Entropy,
				IsPopular: sg.Preferred,
			})
		}
		if len(ranked) > 0 {
			top = ranked[0]
		}
	}

	if s.stats != nil {
		err := s.stats.RecordAnalysis(r.Context(), stats.Analysis{
			Language:    dict.Language,
			Length:      dict.Length,
			HistorySize: len(history),
			DomainSize:  sv.Len(),
			TopWord:     top.Word,
			TopEntropy:  top.Entropy,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("record analysis")
		}
	}

	writeJSON(w, http.StatusOK, res)
}

// parseHistory decodes each entry's feedback. A bad entry aborts the whole
// request, naming its index.
func parseHistory(entries []analyzeEntry) ([]solver.Constraint, error) {
	out := make([]solver.Constraint, 0, len(entries))
	for i, e := range entries {
		guess := strings.ToLower(strings.TrimSpace(e.Word))
		fb, err := parseFeedback(guess, e.Feedback)
		if err != nil {
			return nil, fmt.Errorf("history entry %d (%q): %w", i, guess, err)
		}
		out = append(out, solver.Constraint{Guess: guess, Feedback: fb})
	}
	return out, nil
}

// parseFeedback accepts a G/Y/X pattern string or a list of status names.
func parseFeedback(guess string, raw json.RawMessage) (feedback.Feedback, error) {
	var pattern string
	if err := json.Unmarshal(raw, &pattern); err == nil {
		return feedback.ParsePattern(guess, pattern)
	}
	var statuses []feedback.Status
	if err := json.Unmarshal(raw, &statuses); err != nil {
		if errors.Is(err, feedback.ErrMalformedFeedback) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: expected a pattern string or a list of statuses", feedback.ErrMalformedFeedback)
	}
	return feedback.FromStatuses(guess, statuses)
}

// displayScore maps raw bits to an integer in [1, 99].
func displayScore(bits float64) int {
	score := int(bits * displayMultiplier)
	if score > 99 {
		score = 99
	}
	if score < 1 {
		score = 1
	}
	return score
}

// keyboard folds history feedback into the best status per upper-case letter.
func keyboard(history []feedback.Feedback) map[string]feedback.Status {
	out := make(map[string]feedback.Status)
	for l, st := range feedback.Keyboard(history) {
		out[strings.ToUpper(string(l))] = st
	}
	return out
}
