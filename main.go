package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/session"
	"github.com/robalobadob/wordle/apps/go-solver/internal/stats"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.SetupLogging()

	if cfg.DevSecret() {
		if cfg.Production {
			log.Fatal().Msg("APP_SECRET must be set in production")
		}
		log.Warn().Msg("using development APP_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lib := words.NewLibrary(cfg.WordsFS())
	if _, err := lib.Dictionary(words.DefaultLanguage, 5); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := stats.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open stats db")
	}
	defer db.Close()
	if err := stats.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate stats db")
	}

	games := store.NewMemoryStore(cfg.SessionTTL)
	go games.Run(ctx, time.Minute)

	sessions, err := session.NewManager(cfg.AppSecret, cfg.CookieName, cfg.SessionTTL, cfg.Production)
	if err != nil {
		log.Fatal().Err(err).Msg("session manager")
	}

	srv := httpserver.New(cfg, httpserver.Deps{
		Words:    lib,
		Games:    games,
		Sessions: sessions,
		Stats:    stats.NewStore(db),
	})
	log.Info().Str("port", cfg.Port).Msg("starting go-solver")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
