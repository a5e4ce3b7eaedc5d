// internal/stats/store.go
//
// Append-only log of finished play-mode games and solve analyses.
// Responsibilities:
//   - RecordGame: one row per finished game, idempotent on the game ID.
//   - RecordAnalysis: one row per /api/solve/analyze request.
//   - Summary: aggregate counters served at GET /api/stats.
//
// Writes are best effort from the HTTP layer's point of view; callers log
// failures and carry on.

package stats

import (
	"context"
	"database/sql"
)

// GameResult is one finished play-mode game.
type GameResult struct {
	ID       string
	Language string
	Length   int
	Answer   string
	Guesses  int
	Hints    int
	Won      bool
}

// Analysis is one solve request.
type Analysis struct {
	Language    string
	Length      int
	HistorySize int
	DomainSize  int
	TopWord     string  // empty when the domain was empty
	TopEntropy  float64 // raw bits
}

// Summary aggregates the log.
type Summary struct {
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	AvgGuesses  float64 `json:"avgGuesses"` // over won games
	Analyses    int     `json:"analyses"`
}

// Store records games and analyses.
type Store struct{ db *sql.DB }

// NewStore wraps a migrated database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// RecordGame inserts a finished game. Recording the same ID twice is a no-op.
func (s *Store) RecordGame(ctx context.Context, r GameResult) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games (id, lang, length, answer, guesses, hints, won)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Language, r.Length, r.Answer, r.Guesses, r.Hints, r.Won,
	)
	return err
}

// RecordAnalysis inserts one solve request. The top word and its entropy
// are stored as NULL when the domain was empty.
func (s *Store) RecordAnalysis(ctx context.Context, a Analysis) error {
	var top sql.NullString
	var ent sql.NullFloat64
	if a.TopWord != "" {
		top = sql.NullString{String: a.TopWord, Valid: true}
		ent = sql.NullFloat64{Float64: a.TopEntropy, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO analyses (lang, length, history_size, domain_size, top_word, top_entropy)
        VALUES (?, ?, ?, ?, ?, ?)`,
		a.Language, a.Length, a.HistorySize, a.DomainSize, top, ent,
	)
	return err
}

// Summary counts games, wins and analyses, and averages the guess count of
// won games (0 when there are none).
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	if err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(won), 0),
               COALESCE(AVG(CASE WHEN won = 1 THEN guesses END), 0)
        FROM games`,
	).Scan(&out.GamesPlayed, &out.Wins, &out.AvgGuesses); err != nil {
		return Summary{}, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM analyses`).Scan(&out.Analyses); err != nil {
		return Summary{}, err
	}
	return out, nil
}
