// internal/httpserver/routes_play.go
//
// HTTP routes for the single-player mode.
// Exposes four endpoints under /api/play:
//   - POST /api/play/new   → start a game (random popular answer, or the
//                            puzzle of the day), set session cookie
//   - POST /api/play/guess → grade a guess for the session's game
//   - POST /api/play/hint  → reveal the answer letter at an index
//   - GET  /api/play/state → current game snapshot
//
// Games live in the in-memory store; the signed session cookie only names
// the game. Finished games are written to the stats log.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/session"
	"github.com/robalobadob/wordle/apps/go-solver/internal/stats"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

const msgSessionExpired = "Session expired, please refresh."

// mountPlay registers all /api/play routes.
func (s *Server) mountPlay() {
	s.r.Route("/api/play", func(r chi.Router) {
		r.Post("/new", s.handlePlayNew)
		r.Post("/guess", s.handlePlayGuess)
		r.Post("/hint", s.handlePlayHint)
		r.Get("/state", s.handlePlayState)
	})
}

// -----------------------------------------------------------------------------
// /api/play/new

type playNewReq struct {
	Length int    `json:"length"`
	Lang   string `json:"lang"`
	Daily  bool   `json:"daily"`
}

type playNewRes struct {
	GameID      string `json:"gameId"`
	Length      int    `json:"length"`
	Lang        string `json:"lang"`
	MaxAttempts int    `json:"max_attempts"`
	Daily       string `json:"daily,omitempty"`
}

// handlePlayNew picks an answer from the popular list (falling back to the
// full dictionary) and starts a game. With daily set, the answer is the
// date-derived puzzle of the day. Any previous game of the session is
// dropped.
func (s *Server) handlePlayNew(w http.ResponseWriter, r *http.Request) {
	var req playNewReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	length := normalizeLength(req.Length)

	dict, err := s.words.Dictionary(req.Lang, length)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var answer, date string
	if req.Daily {
		answer, date, err = daily.Pick(dict.Answers(), time.Now(), s.cfg.DailySalt)
	} else {
		answer, err = dict.RandomAnswer()
	}
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if prev, err := s.sessions.Read(r); err == nil {
		_ = s.games.Delete(r.Context(), prev.GameID)
	}

	g := game.New(answer, dict.Language, s.cfg.MaxAttempts)
	g.Daily = date
	if err := s.games.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := s.sessions.Issue(w, session.Claims{GameID: g.ID, Length: g.Length, Language: g.Language}); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("issue session")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	hlog.FromRequest(r).Debug().Str("gameId", g.ID).Str("lang", g.Language).Int("length", g.Length).Msg("new game")

	writeJSON(w, http.StatusOK, playNewRes{GameID: g.ID, Length: g.Length, Lang: g.Language, MaxAttempts: g.MaxAttempts, Daily: g.Daily})
}

// -----------------------------------------------------------------------------
// /api/play/guess

type playGuessReq struct {
	Guess string `json:"guess"`
}

type playGuessRes struct {
	Feedback []game.Tile `json:"feedback"`
	Won      bool        `json:"won"`
	GameOver bool        `json:"game_over"`
	Answer   *string     `json:"answer"`
}

// handlePlayGuess validates and grades a guess for the session's game. The
// guess is applied under the store's per-game lock, so parallel requests on
// one session are graded one at a time.
func (s *Server) handlePlayGuess(w http.ResponseWriter, r *http.Request) {
	var req playGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var (
		fb   feedback.Feedback
		snap *game.Game
		lang string
	)
	err := s.games.Update(r.Context(), id, func(g *game.Game) error {
		lang = g.Language
		var allowed func(string) bool
		if dict, err := s.words.Dictionary(g.Language, g.Length); err == nil {
			allowed = dict.IsAllowed
		} else {
			hlog.FromRequest(r).Warn().Err(err).Msg("dictionary unavailable, accepting any word")
		}
		var err error
		if fb, err = g.ApplyGuess(req.Guess, allowed); err != nil {
			return err
		}
		snap = g.Clone()
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.sessions.Clear(w)
		writeError(w, http.StatusBadRequest, msgSessionExpired)
		return
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusBadRequest, notInDictionary(lang))
		return
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), game.ErrInvalidGuess.Error()+": "))
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("update game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	// Only the request whose guess ended the game sees Finished flip, so
	// each game is recorded once.
	if snap.Finished {
		s.recordGame(r, snap)
	}

	res := playGuessRes{Feedback: game.Tiles(fb), Won: snap.Won, GameOver: snap.Finished}
	if snap.Finished {
		ans := snap.Answer
		res.Answer = &ans
	}
	writeJSON(w, http.StatusOK, res)
}

// notInDictionary localizes the unknown-word message.
func notInDictionary(lang string) string {
	if lang == "indonesia" {
		return "Kata tidak ditemukan di kamus!"
	}
	return "Word not found in dictionary!"
}

func (s *Server) recordGame(r *http.Request, g *game.Game) {
	if s.stats == nil {
		return
	}
	err := s.stats.RecordGame(r.Context(), stats.GameResult{
		ID:       g.ID,
		Language: g.Language,
		Length:   g.Length,
		Answer:   g.Answer,
		Guesses:  len(g.Guesses),
		Hints:    len(g.Hints),
		Won:      g.Won,
	})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("record game")
	}
}

// -----------------------------------------------------------------------------
// /api/play/hint

type playHintReq struct {
	Index *int `json:"index"`
}

func (s *Server) handlePlayHint(w http.ResponseWriter, r *http.Request) {
	var req playHintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeError(w, http.StatusBadRequest, "Index invalid")
		return
	}
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	var letter byte
	err := s.games.Update(r.Context(), id, func(g *game.Game) error {
		var err error
		letter, err = g.Hint(*req.Index)
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.sessions.Clear(w)
		writeError(w, http.StatusBadRequest, msgSessionExpired)
		return
	case errors.Is(err, game.ErrInvalidHint):
		writeError(w, http.StatusBadRequest, "Index invalid")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("update game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"letter": strings.ToUpper(string(letter))})
}

// -----------------------------------------------------------------------------
// /api/play/state

func (s *Server) handlePlayState(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	g, err := s.games.Get(r.Context(), id)
	if err != nil {
		s.sessions.Clear(w)
		writeError(w, http.StatusBadRequest, msgSessionExpired)
		return
	}
	writeJSON(w, http.StatusOK, g.State())
}

// sessionID resolves the caller's game ID, writing a 400 when the session
// is missing or invalid.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := s.sessions.Read(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgSessionExpired)
		return "", false
	}
	return c.GameID, true
}
