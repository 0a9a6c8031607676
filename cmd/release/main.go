package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"valtech/internal/adapter/repo"
	"valtech/internal/domain"
	"valtech/internal/infra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseRelease validates the flags into the release to store.
func parseRelease(args []string) (domain.Release, error) {
	var (
		version float64
		rawURL  string
	)
	fs := flag.NewFlagSet("release", flag.ContinueOnError)
	fs.Float64Var(&version, "version", 0, "release version, e.g. 1.5")
	fs.StringVar(&rawURL, "url", "", "download URL for the release")
	if err := fs.Parse(args); err != nil {
		return domain.Release{}, err
	}

	if version <= 0 {
		return domain.Release{}, errors.New("-version must be positive")
	}
	releaseURL := strings.TrimSpace(rawURL)
	if u, err := url.Parse(releaseURL); err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return domain.Release{}, fmt.Errorf("invalid -url %q", rawURL)
	}
	return domain.Release{Version: version, URL: releaseURL}, nil
}

func run(args []string, stdout io.Writer) error {
	rel, err := parseRelease(args)
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
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "release").Logger()
	releases := repo.NewReleaseRepository(infra.NewSQLRunner(pool, logger))

	if err := releases.Upsert(ctx, rel); err != nil {
		return fmt.Errorf("failed to store release: %w", err)
	}
	fmt.Fprintf(stdout, "release %g -> %s\n", rel.Version, rel.URL)
	return nil
}
