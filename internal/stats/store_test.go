package stats

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSummaryEmpty(t *testing.T) {
	s := NewStore(openTestDB(t))
	sum, err := s.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}

func TestRecordAndSummarize(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTestDB(t))

	require.NoError(t, s.RecordGame(ctx, GameResult{ID: "a", Language: "english", Length: 5, Answer: "crane", Guesses: 3, Won: true}))
	require.NoError(t, s.RecordGame(ctx, GameResult{ID: "a", Language: "english", Length: 5, Answer: "crane", Guesses: 3, Won: true}))
	require.NoError(t, s.RecordGame(ctx, GameResult{ID: "b", Language: "english", Length: 5, Answer: "slate", Guesses: 5, Hints: 1, Won: true}))
	require.NoError(t, s.RecordGame(ctx, GameResult{ID: "c", Language: "english", Length: 4, Answer: "bird", Guesses: 6, Won: false}))

	require.NoError(t, s.RecordAnalysis(ctx, Analysis{Language: "english", Length: 5, HistorySize: 1, DomainSize: 12, TopWord: "stare", TopEntropy: 2.5}))
	require.NoError(t, s.RecordAnalysis(ctx, Analysis{Language: "english", Length: 5, HistorySize: 3, DomainSize: 0}))

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.GamesPlayed)
	assert.Equal(t, 2, sum.Wins)
	assert.InDelta(t, 4.0, sum.AvgGuesses, 1e-9)
	assert.Equal(t, 2, sum.Analyses)
}

func TestRecordAnalysisEmptyDomainStoresNull(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := NewStore(db)
	require.NoError(t, s.RecordAnalysis(ctx, Analysis{Language: "english", Length: 5, HistorySize: 2}))

	var top sql.NullString
	var ent sql.NullFloat64
	require.NoError(t, db.QueryRow(`SELECT top_word, top_entropy FROM analyses`).Scan(&top, &ent))
	assert.False(t, top.Valid)
	assert.False(t, ent.Valid)
}
