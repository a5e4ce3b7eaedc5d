package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/session"
	"github.com/robalobadob/wordle/apps/go-solver/internal/stats"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var testWords = fstest.MapFS{
	"english/5.txt":               {Data: []byte("crane\ntrace\nreact\nslate\nround\npound\nmound\nsound\n")},
	"english/5_clean_popular.txt": {Data: []byte("crane\n")},
	"indonesia/5.txt":             {Data: []byte("rumah\nmakan\n")},
}

type fixture struct {
	srv   *Server
	stats *stats.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, store.NewMemoryStore(0))
}

func newFixtureWith(t *testing.T, games store.Store) *fixture {
	t.Helper()
	db, err := stats.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, stats.Migrate(context.Background(), db))

	sess, err := session.NewManager("test-secret", "wordle_session", time.Hour, false)
	require.NoError(t, err)

	st := stats.NewStore(db)
	cfg := config.Config{ClientOrigin: "http://localhost:5173", MaxAttempts: 6, CandidateLimit: 200, ResultLimit: 50, Workers: 2}
	srv := New(cfg, Deps{
		Words:    words.NewLibrary(testWords),
		Games:    games,
		Sessions: sess,
		Stats:    st,
	})
	return &fixture{srv: srv, stats: st}
}

func (f *fixture) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestHealthAndNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["error"])
}

func TestDictionaries(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/dictionaries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dictionaries":[
		{"lang":"english","length":5,"words":8,"popular":1},
		{"lang":"indonesia","length":5,"words":2,"popular":0}
	]}`, rec.Body.String())
}

func TestAnalyzeEmptyHistoryRanksDomain(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/solve/analyze", map[string]any{"length": 5, "history": []any{}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res analyzeRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 8, res.Count)
	require.Len(t, res.Suggestions, 8)
	for i, sg := range res.Suggestions {
		assert.Equal(t, strings.ToUpper(sg.Word), sg.Word)
		assert.GreaterOrEqual(t, sg.Score, 1)
		assert.LessOrEqual(t, sg.Score, 99)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Suggestions[i-1].Entropy, sg.Entropy)
		}
		assert.Equal(t, sg.Word == "CRANE", sg.IsPopular)
	}
}

func TestAnalyzeNarrowsDomain(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/solve/analyze", map[string]any{
		"length": 5,
		"lang":   "english",
		"history": []map[string]any{
			{"word": "ROUND", "feedback": "XGGGG"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res analyzeRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Count)
	var got []string
	for _, sg := range res.Suggestions {
		got = append(got, sg.Word)
	}
	assert.ElementsMatch(t, []string{"POUND", "MOUND", "SOUND"}, got)
	assert.Equal(t, "correct", string(mustText(t, res.Keyboard["O"])))
	assert.Equal(t, "absent", string(mustText(t, res.Keyboard["R"])))

	sum, err := f.stats.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Analyses)
}

func TestAnalyzeStatusListAndEmptyDomain(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/solve/analyze", map[string]any{
		"history": []map[string]any{
			{"word": "crane", "feedback": []string{"green", "green", "green", "green", "green"}},
			{"word": "trace", "feedback": "GGGGG"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"count":0,"suggestions":[],"keyboard":{"A":"correct","C":"correct","E":"correct","N":"correct","R":"correct","T":"correct"}}`, rec.Body.String())
}

func TestAnalyzeErrors(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing dictionary", map[string]any{"length": 7}, "Dictionary not found for english length 7"},
		{"malformed", map[string]any{"history": []map[string]any{{"word": "crane", "feedback": "GGQGG"}}}, "malformed feedback"},
		{"pattern length", map[string]any{"history": []map[string]any{{"word": "crane", "feedback": "GG"}}}, "length mismatch"},
		{"guess length", map[string]any{"history": []map[string]any{{"word": "cranes", "feedback": "GGGGGG"}}}, "invalid constraint"},
		{"no feedback", map[string]any{"history": []map[string]any{{"word": "crane"}}}, "malformed feedback"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/solve/analyze", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode(t, rec)["error"], tc.want)
		})
	}
}

func TestPlayFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/play/new", map[string]any{"length": 9})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	newRes := decode(t, rec)
	assert.EqualValues(t, 5, newRes["length"])
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	// The popular list holds a single word, so the answer is known.
	rec = f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "zzzzz"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Word not found in dictionary!", decode(t, rec)["error"])

	rec = f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "abc"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "word must be 5 letters long", decode(t, rec)["error"])

	rec = f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "trace"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var gr playGuessRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gr))
	assert.False(t, gr.GameOver)
	assert.Nil(t, gr.Answer)
	require.Len(t, gr.Feedback, 5)
	assert.Equal(t, "T", gr.Feedback[0].Letter)

	rec = f.do(t, http.MethodPost, "/api/play/hint", map[string]any{"index": 0}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "C", decode(t, rec)["letter"])

	rec = f.do(t, http.MethodPost, "/api/play/hint", map[string]any{"index": 10}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "CRANE"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gr))
	assert.True(t, gr.Won)
	assert.True(t, gr.GameOver)
	require.NotNil(t, gr.Answer)
	assert.Equal(t, "crane", *gr.Answer)

	rec = f.do(t, http.MethodGet, "/api/play/state", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode(t, rec)
	assert.EqualValues(t, 2, st["attempts_made"])
	assert.Equal(t, true, st["won"])
	assert.Equal(t, "won", st["status"])
	assert.Equal(t, []any{float64(0)}, st["hints"])

	rec = f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "crane"}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	sum, err := f.stats.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.GamesPlayed)
	assert.Equal(t, 1, sum.Wins)

	rec = f.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["gamesPlayed"])
}

func TestPlayWithoutSession(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "crane"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgSessionExpired, decode(t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/api/play/state", nil, &http.Cookie{Name: "wordle_session", Value: "garbage"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayLocalizedMessage(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/play/new", map[string]any{"length": 5, "lang": "indonesia"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]

	rec = f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "zzzzz"}, cookie)
	assert.Equal(t, "Kata tidak ditemukan di kamus!", decode(t, rec)["error"])
}

func TestPlayDaily(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/play/new", map[string]any{"daily": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode(t, rec)
	assert.Equal(t, daily.DateKey(time.Now()), res["daily"])
	cookie := rec.Result().Cookies()[0]

	rec = f.do(t, http.MethodGet, "/api/play/state", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, res["daily"], decode(t, rec)["daily"])

	rec = f.do(t, http.MethodPost, "/api/play/new", map[string]any{})
	assert.NotContains(t, decode(t, rec), "daily")
}

func TestPlayParallelGuessesRespectAttemptLimit(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/play/new", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]

	const n = 20
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/play/guess", strings.NewReader(`{"guess":"trace"}`))
			req.AddCookie(cookie)
			rec := httptest.NewRecorder()
			f.srv.Router().ServeHTTP(rec, req)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	count := map[int]int{}
	for c := range codes {
		count[c]++
	}
	assert.Equal(t, 6, count[http.StatusOK])
	assert.Equal(t, n-6, count[http.StatusConflict])

	rec = f.do(t, http.MethodGet, "/api/play/state", nil, cookie)
	st := decode(t, rec)
	assert.EqualValues(t, 6, st["attempts_made"])
	assert.Equal(t, "lost", st["status"])

	sum, err := f.stats.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.GamesPlayed)
	assert.Equal(t, 0, sum.Wins)
}

// brokenStore fails every Update.
type brokenStore struct{ *store.Memory }

func (brokenStore) Update(context.Context, string, func(*game.Game) error) error {
	return errors.New("disk full")
}

func TestPlayUpdateFailureIsReported(t *testing.T) {
	f := newFixtureWith(t, brokenStore{store.NewMemoryStore(0)})
	rec := f.do(t, http.MethodPost, "/api/play/new", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]

	rec = f.do(t, http.MethodPost, "/api/play/hint", map[string]any{"index": 0}, cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "save_failed", decode(t, rec)["error"])

	rec = f.do(t, http.MethodPost, "/api/play/guess", map[string]any{"guess": "trace"}, cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPlayEvictedGame(t *testing.T) {
	games := store.NewMemoryStore(0)
	f := newFixtureWith(t, games)
	rec := f.do(t, http.MethodPost, "/api/play/new", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]
	require.NoError(t, games.Delete(context.Background(), decode(t, rec)["gameId"].(string)))

	for _, path := range []string{"/api/play/guess", "/api/play/hint"} {
		rec = f.do(t, http.MethodPost, path, map[string]any{"guess": "trace", "index": 0}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, msgSessionExpired, decode(t, rec)["error"], path)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestDisplayScore(t *testing.T) {
	assert.Equal(t, 1, displayScore(0))
	assert.Equal(t, 18, displayScore(1))
	assert.Equal(t, 99, displayScore(10))
	assert.Equal(t, 41, displayScore(2.3))
}

func mustText(t *testing.T, v interface{ MarshalText() ([]byte, error) }) []byte {
	t.Helper()
	b, err := v.MarshalText()
	require.NoError(t, err)
	return b
}
