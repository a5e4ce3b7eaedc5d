package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "WORDS_DIR", "APP_SECRET", "SESSION_TTL_HOURS", "SOLVE_CANDIDATE_LIMIT", "SOLVE_RESULT_LIMIT"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "5175", c.Port)
	assert.False(t, c.Production)
	assert.True(t, c.DevSecret())
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, 200, c.CandidateLimit)
	assert.Equal(t, 50, c.ResultLimit)
	assert.Greater(t, c.Workers, 0)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "Production")
	t.Setenv("APP_SECRET", "s3cret")
	t.Setenv("SOLVE_RESULT_LIMIT", "10")
	t.Setenv("SOLVE_CANDIDATE_LIMIT", "-4")

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.True(t, c.Production)
	assert.False(t, c.DevSecret())
	assert.Equal(t, 10, c.ResultLimit)
	assert.Equal(t, 200, c.CandidateLimit)
}

func TestWordsFS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "english"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "english", "5.txt"), []byte("crane\n"), 0o644))
	c := Config{WordsDir: dir}
	b, err := fs.ReadFile(c.WordsFS(), "english/5.txt")
	require.NoError(t, err)
	assert.Equal(t, "crane\n", string(b))

	c = Config{}
	_, err = fs.Stat(c.WordsFS(), "english/5.txt")
	assert.NoError(t, err)
}
