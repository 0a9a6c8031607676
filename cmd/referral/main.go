package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"valtech/internal/adapter/repo"
	"valtech/internal/domain"
	"valtech/internal/infra"
	"valtech/internal/referral"
)

type options struct {
	duration time.Duration
	ttl      time.Duration
	count    int
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("referral", flag.ContinueOnError)
	fs.DurationVar(&opts.duration, "duration", 30*24*time.Hour, "premium time granted by each code (e.g. 720h)")
	fs.DurationVar(&opts.ttl, "ttl", 7*24*time.Hour, "how long the codes stay redeemable")
	fs.IntVar(&opts.count, "count", 1, "number of codes to mint")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.count <= 0 {
		return options{}, errors.New("-count must be positive")
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "referral").Logger()
	return mint(ctx, repo.NewReferralRepository(infra.NewSQLRunner(pool, logger)), opts, time.Now(), stdout)
}

type referralCreator interface {
	Create(ctx context.Context, token domain.ReferralToken) error
}

func mint(ctx context.Context, referrals referralCreator, opts options, now time.Time, stdout io.Writer) error {
	for i := 0; i < opts.count; i++ {
		tok, err := referral.Mint(now, opts.duration, opts.ttl)
		if err != nil {
			return err
		}
		if err := referrals.Create(ctx, tok); err != nil {
			return fmt.Errorf("failed to store referral code: %w", err)
		}
		fmt.Fprintf(stdout, "%s\t%s\texpires %s\n", tok.Token, domain.FormatDuration(tok.Duration), time.Unix(tok.ExpiresIn, 0).UTC().Format(time.RFC3339))
	}
	return nil
}
