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

	"valtech/internal/adapter/repo"
	"valtech/internal/infra"
	"valtech/internal/jobs"
	"valtech/internal/jobs/maintenance"
	"valtech/internal/notify"
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
		logger.Error().Err(err).Msg("worker: exited")
		os.Exit(1)
	}
}

func run(cfg *infra.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repo.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("worker: db connection failed: %w", err)
	}
	defer store.Close()

	notifier := notify.New(cfg.WebhookURL, infra.Component(logger, "notify"))

	loops, err := maintenance.Loops(cfg, store, notifier, logger)
	if err != nil {
		return fmt.Errorf("worker: invalid loop configuration: %w", err)
	}

	logger.Info().Int("loops", len(loops)).Msg("worker: started")
	handle := jobs.NewRunner(infra.Component(logger, "jobs")).Start(ctx, loops...)
	<-ctx.Done()
	handle.Stop()

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := notify.Flush(flushCtx, notifier); err != nil {
		logger.Warn().Err(err).Msg("worker: pending notifications dropped")
	}
	logger.Info().Msg("worker: stopped")
	return nil
}
