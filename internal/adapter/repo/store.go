package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"valtech/internal/infra"
)

// Store owns the connection pool and the repositories built on it.
//
// Lifecycle: Open at process start (connects, optionally migrates), hand the
// repositories to components by constructor, Close once every component that
// uses them has stopped.
type Store struct {
	pool *pgxpool.Pool

	SQL        *infra.SQLRunner
	Users      *UserRepositoryPG
	Referrals  *ReferralRepositoryPG
	AuthTokens *AuthTokenRepositoryPG
	Releases   *ReleaseRepositoryPG
}

// Open connects to the database described by cfg and wires the repositories.
func Open(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Store, error) {
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := infra.RunMigrations(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	runner := infra.NewSQLRunner(pool, infra.Component(logger, "sql"))
	return &Store{
		pool:       pool,
		SQL:        runner,
		Users:      NewUserRepository(runner),
		Referrals:  NewReferralRepository(runner),
		AuthTokens: NewAuthTokenRepository(runner),
		Releases:   NewReleaseRepository(runner),
	}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store is closed")
	}
	return s.pool.Ping(ctx)
}

// Close releases the pool. Safe to call more than once.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
	s.pool = nil
}
