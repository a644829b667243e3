package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/nurpe/freelance-backoffice/internal/auth"
	"github.com/nurpe/freelance-backoffice/internal/config"
	"github.com/nurpe/freelance-backoffice/internal/db"
	"github.com/nurpe/freelance-backoffice/internal/excel"
	httphandler "github.com/nurpe/freelance-backoffice/internal/http"
	"github.com/nurpe/freelance-backoffice/internal/http/middleware"
	"github.com/nurpe/freelance-backoffice/internal/logger"
	"github.com/nurpe/freelance-backoffice/internal/pdf"
	"github.com/nurpe/freelance-backoffice/internal/ratelimit"
	"github.com/nurpe/freelance-backoffice/internal/repository"
	"github.com/nurpe/freelance-backoffice/internal/service"
)

func main() {
	var (
		configFile  string
		migrateOnly bool
	)
	pflag.StringVar(&configFile, "config", "", "path to an env-style config file")
	pflag.BoolVar(&migrateOnly, "migrate-only", false, "apply database migrations and exit")
	pflag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if migrateOnly {
		cfg.DB.AutoMigrate = true
	}

	log := logger.NewWithLevel(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if migrateOnly {
		log.Info().Msg("migrations applied")
		return
	}

	store := repository.NewStore(database)
	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	handler := httphandler.NewHandler(httphandler.Services{
		Contracts: service.NewContractService(store),
		Jobs:      service.NewJobService(store, pdfGenerator),
		Payments:  service.NewPaymentService(store, cfg, log),
		Deposits:  service.NewDepositService(store, cfg, log),
		Admin:     service.NewAdminService(store, excel.NewGenerator()),
	}, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	if !tokenParser.Enabled() {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, profiles are resolved from the profile_id header only")
	}

	router := httphandler.NewRouter(httphandler.RouterDeps{
		Handler:     handler,
		Profile:     middleware.Profile(service.NewProfileService(store), tokenParser),
		RateLimit:   middleware.RateLimit(newLimiter(cfg, log), log),
		Environment: cfg.Environment,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", addr).Msg("starting backoffice service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// newLimiter prefers a shared redis counter and falls back to process memory.
func newLimiter(cfg *config.Config, log zerolog.Logger) ratelimit.Limiter {
	rate, window := cfg.RateLimit.Requests, cfg.RateLimit.Window
	if rate == 0 {
		rate, window = math.MaxInt, time.Minute
	}
	if cfg.RateLimit.RedisURL == "" {
		return ratelimit.NewMemory(rate, window)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory rate limiter")
		return ratelimit.NewMemory(rate, window)
	}
	return ratelimit.NewRedis(client, rate, window)
}
