package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"valtech/internal/adapter/redisrepo"
	"valtech/internal/adapter/repo"
	"valtech/internal/http/handlers"
	httpapi "valtech/internal/http/httpapi"
	"valtech/internal/infra"
	"valtech/internal/infra/geoip"
	"valtech/internal/jobs"
	"valtech/internal/jobs/maintenance"
	"valtech/internal/middleware"
	"valtech/internal/notify"
	"valtech/internal/pages"
	"valtech/internal/referral"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

// run owns every resource of the server process; it returns only after they
// are released.
func run(cfg *infra.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pageLoader, err := pages.NewLoader(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("invalid templates dir: %w", err)
	}

	notifier := notify.New(cfg.WebhookURL, infra.Component(logger, "notify"))
	notifier.Notify(ctx, "Starting VALTECH server!")

	store, err := repo.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	loops, err := maintenance.Loops(cfg, store, notifier, logger)
	if err != nil {
		return fmt.Errorf("configure background loops: %w", err)
	}

	var limits middleware.WindowStore = middleware.NewMemoryWindowStore()
	redisClient, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("rate limit redis unavailable, using in-memory windows")
	} else if redisClient != nil {
		defer redisClient.Close()
		limits = redisrepo.NewRateRepo(redisClient, "valtech:")
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	app := &handlers.App{
		Users:    store.Users,
		Releases: store.Releases,
		Referrals: referral.NewService(store.Referrals, notifier, infra.Component(logger, "referral"), referral.Options{
			EnforceExpiry: cfg.EnforceReferralExpiry,
		}),
		Pages:      pageLoader,
		DB:         store,
		StaticDir:  cfg.StaticDir,
		DiscordURL: cfg.DiscordInviteURL,
		Logger:     infra.Component(logger, "http"),
	}
	router := httpapi.NewRouter(httpapi.Deps{
		App:         app,
		Limits:      limits,
		Country:     resolver.Lookup(),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      infra.Component(logger, "access"),
	})
	server := infra.NewHTTPServer(cfg, router)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		serverErr <- server.Start()
	}()

	handle := jobs.NewRunner(infra.Component(logger, "jobs")).Start(ctx, loops...)
	notifier.Notify(ctx, "VALTECH server started!")

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
		if runErr != nil {
			runErr = fmt.Errorf("http server: %w", runErr)
		}
	}

	handle.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	notifier.Notify(shutdownCtx, "VALTECH server stopped!")
	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFlush()
	if err := notify.Flush(flushCtx, notifier); err != nil {
		logger.Warn().Err(err).Msg("pending notifications dropped")
	}
	logger.Info().Msg("server stopped")
	return runErr
}
