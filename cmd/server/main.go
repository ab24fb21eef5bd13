package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/anil1907/fidi-api/internal/auth"
	"github.com/anil1907/fidi-api/internal/config"
	"github.com/anil1907/fidi-api/internal/handler"
	"github.com/anil1907/fidi-api/internal/middleware"
	"github.com/anil1907/fidi-api/internal/pgstore"
	"github.com/anil1907/fidi-api/internal/store"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("PRETTY_LOG") == "1" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres when configured, in-memory otherwise. The memory store keeps
	// local development and the demo deployment free of a database.
	var st store.Store = store.NewMemory()
	if cfg.DatabaseURL != "" {
		pool, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("db connect")
		}
		defer pool.Close()
		pg := pgstore.New(pool)

		if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
			log.Warn().Err(err).Msg("migration file not found, skipping")
		} else if err := pg.Migrate(ctx, string(migration)); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		} else {
			log.Info().Msg("migration applied")
		}

		st = pg
		log.Info().Msg("connected to postgres")
	} else {
		log.Info().Msg("DATABASE_URL not set, using in-memory store")
	}

	h := handler.New(st, auth.NewTokens(cfg.JWTSecret), cfg.Hours, log)
	rl := middleware.NewRateLimiter(5, 10)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(rl, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
