package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/rentline/rentline-backend/api/routes"
	"github.com/rentline/rentline-backend/internal/agreements"
	"github.com/rentline/rentline-backend/internal/assets"
	"github.com/rentline/rentline-backend/internal/availability"
	"github.com/rentline/rentline-backend/internal/coupons"
	"github.com/rentline/rentline-backend/pkg/config"
	"github.com/rentline/rentline-backend/pkg/db"
	"github.com/rentline/rentline-backend/pkg/logger"
	"github.com/rentline/rentline-backend/pkg/migrate"
	"github.com/rentline/rentline-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	assetRepo := assets.NewRepository(dbClient.DB())
	couponRepo := coupons.NewRepository(dbClient.DB())
	agreementRepo := agreements.NewRepository(dbClient.DB())

	assetService, err := assets.NewService(assetRepo, couponRepo, cfg.Catalog.SlugMaxAttempts)
	if err != nil {
		logg.Error(context.Background(), "failed to create asset service", err)
		os.Exit(1)
	}

	couponService, err := coupons.NewService(couponRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	agreementService, err := agreements.NewService(agreementRepo, assetRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create agreement service", err)
		os.Exit(1)
	}

	availabilityService, err := availability.NewService(assetRepo, agreementRepo, redisClient, cfg.Availability, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			assetService,
			couponService,
			agreementService,
			availabilityService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case err := <-errCh:
		runErr = err
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		runErr = multierr.Append(runErr, server.Shutdown(shutdownCtx))
		runErr = multierr.Append(runErr, <-errCh)
	}

	if runErr != nil {
		logg.Error(ctx, "api server stopped unexpectedly", runErr)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
