package main

import (
	"context"
	"dtmoney-server/src/api"
	"dtmoney-server/src/config"
	"dtmoney-server/src/db"
	"dtmoney-server/src/db/memory"
	dbsql "dtmoney-server/src/db/sql"
	"dtmoney-server/src/handlers"
	"dtmoney-server/src/logger"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	logger.SetGlobalLogger(logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo db.TransactionRepository
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, serving seeded in-memory transactions")
		repo = memory.NewRepository(memory.SeedTransactions())
	} else {
		// Connect to database
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("DB connection failed")
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("DB migration failed")
		}
		repo = dbsql.NewRepository(pool)
	}

	cache, err := db.NewQueryCache(cfg.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("cache initialization failed")
	}
	defer cache.Close()

	router := api.NewRouter(db.NewCachedRepository(repo, cache), cache, api.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
		Admin: handlers.Credentials{
			Username:     cfg.AdminUser,
			PasswordHash: []byte(cfg.AdminPasswordHash),
		},
		TokenTTL: cfg.TokenTTL,
	})
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, write endpoints are unauthenticated")
	} else if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH not set, login is disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Bool("demo", cfg.DemoMode).Msg("API server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
