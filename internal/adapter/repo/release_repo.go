package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"valtech/internal/domain"
	"valtech/internal/infra"
	"valtech/internal/sqlinline"
)

// ReleaseRepositoryPG implements domain.ReleaseRepository backed by PostgreSQL.
type ReleaseRepositoryPG struct {
	sql infra.TxExecutor
}

// NewReleaseRepository creates a new ReleaseRepositoryPG.
func NewReleaseRepository(sql infra.TxExecutor) *ReleaseRepositoryPG {
	return &ReleaseRepositoryPG{sql: sql}
}

// GetByVersion looks up a release by exact version.
func (r *ReleaseRepositoryPG) GetByVersion(ctx context.Context, version float64) (*domain.Release, error) {
	return scanRelease(r.sql.QueryRow(ctx, sqlinline.QSelectReleaseByVersion, version))
}

// Latest returns the release with the highest version.
func (r *ReleaseRepositoryPG) Latest(ctx context.Context) (*domain.Release, error) {
	return scanRelease(r.sql.QueryRow(ctx, sqlinline.QSelectLatestRelease))
}

// Upsert inserts a release or replaces the URL of an existing version.
func (r *ReleaseRepositoryPG) Upsert(ctx context.Context, release domain.Release) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QUpsertRelease, release.Version, release.URL); err != nil {
		return fmt.Errorf("upsert release: %w", err)
	}
	return nil
}

func scanRelease(row pgx.Row) (*domain.Release, error) {
	var rel domain.Release
	if err := row.Scan(&rel.Version, &rel.URL); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select release: %w", err)
	}
	return &rel, nil
}
