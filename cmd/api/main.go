package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playpulse/playpulse-backend/config"
	"github.com/playpulse/playpulse-backend/internal/auth"
	authmw "github.com/playpulse/playpulse-backend/internal/auth/middleware"
	"github.com/playpulse/playpulse-backend/internal/bootstrap"
	"github.com/playpulse/playpulse-backend/internal/logging"
	cronjob "github.com/playpulse/playpulse-backend/internal/versions/cron"
)

const serviceName = "playpulse-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Base().Fatal().Err(err).Msg("config")
	}
	logging.Setup(cfg.App.LogLevel, cfg.App.Environment)
	bootstrap.SetGinMode(cfg.App.Environment)
	log := logging.Base()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.App.Storage).Msg("open storage")
	}
	defer stores.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, public page cache disabled")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var verifier authmw.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase")
		}
		verifier = client
	} else {
		log.Warn().Msg("FIREBASE_CREDENTIALS_PATH not set, trusting X-User-Id header")
	}

	services := bootstrap.NewServices(stores, rdb, cfg.Redis.PublicTTL)

	scheduler := cronjob.NewScheduler(cfg.Jobs.BackfillSchedule, services.Backfill, cfg.Jobs.BackfillRatePerSecond)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("backfill scheduler")
	}
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Stores:      stores,
		Services:    services,
		Redis:       rdb,
		Verifier:    verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.App.Storage).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
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
