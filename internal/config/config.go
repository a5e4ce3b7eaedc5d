// internal/config/config.go
//
// Environment-driven configuration shared by the server and the CLI.
// Call godotenv.Load() before Load() to pick up a local .env file.
//
// Environment variables:
//   PORT, LOG_LEVEL, LOG_FORMAT, ENV, WORDS_DIR, DB_PATH, APP_SECRET,
//   CLIENT_ORIGIN, COOKIE_NAME, SESSION_TTL_HOURS, MAX_ATTEMPTS,
//   DAILY_SALT, SOLVE_CANDIDATE_LIMIT, SOLVE_RESULT_LIMIT, SOLVE_WORKERS

package config

import (
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
)

const devSecret = "dev_secret_change_me"

// Config holds every tunable of the service.
type Config struct {
	Port         string
	LogLevel     string
	LogFormat    string // "json" | "console"
	Production   bool
	WordsDir     string // empty → embedded library
	DBPath       string
	AppSecret    string
	ClientOrigin string
	CookieName   string
	SessionTTL   time.Duration
	MaxAttempts  int
	DailySalt    string

	// Solve analysis: how many domain words are scored per request and how
	// many suggestions are returned.
	CandidateLimit int
	ResultLimit    int
	Workers        int
}

// Load reads the environment, applying defaults.
func Load() Config {
	return Config{
		Port:           envStr("PORT", "5175"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		LogFormat:      envStr("LOG_FORMAT", "json"),
		Production:     strings.EqualFold(os.Getenv("ENV"), "production"),
		WordsDir:       os.Getenv("WORDS_DIR"),
		DBPath:         envStr("DB_PATH", "./data/solver.db"),
		AppSecret:      envStr("APP_SECRET", devSecret),
		ClientOrigin:   envStr("CLIENT_ORIGIN", "http://localhost:5173"),
		CookieName:     envStr("COOKIE_NAME", "wordle_session"),
		SessionTTL:     time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		MaxAttempts:    envInt("MAX_ATTEMPTS", 6),
		DailySalt:      envStr("DAILY_SALT", "local_dev_salt"),
		CandidateLimit: envInt("SOLVE_CANDIDATE_LIMIT", 200),
		ResultLimit:    envInt("SOLVE_RESULT_LIMIT", 50),
		Workers:        envInt("SOLVE_WORKERS", runtime.GOMAXPROCS(0)),
	}
}

// DevSecret reports whether the built-in development secret is in use.
func (c Config) DevSecret() bool { return c.AppSecret == devSecret }

// WordsFS returns the dictionary tree: WORDS_DIR if set, else the embedded
// library.
func (c Config) WordsFS() fs.FS {
	if c.WordsDir != "" {
		return os.DirFS(c.WordsDir)
	}
	return assets.Library()
}

// SetupLogging applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func (c Config) SetupLogging() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// envStr returns the value of k or def if unset/empty.
func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as a positive int, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring invalid integer setting")
	}
	return def
}
