package repo

import (
	"context"
	"fmt"

	"valtech/internal/domain"
	"valtech/internal/infra"
	"valtech/internal/sqlinline"
)

// AuthTokenRepositoryPG implements domain.AuthTokenRepository backed by PostgreSQL.
type AuthTokenRepositoryPG struct {
	sql infra.TxExecutor
}

// NewAuthTokenRepository creates a new AuthTokenRepositoryPG.
func NewAuthTokenRepository(sql infra.TxExecutor) *AuthTokenRepositoryPG {
	return &AuthTokenRepositoryPG{sql: sql}
}

// List returns every stored auth token.
func (r *AuthTokenRepositoryPG) List(ctx context.Context) ([]domain.AuthToken, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAuthTokens)
	if err != nil {
		return nil, fmt.Errorf("list auth tokens: %w", err)
	}
	defer rows.Close()

	var items []domain.AuthToken
	for rows.Next() {
		var t domain.AuthToken
		if err := rows.Scan(&t.ID, &t.Token, &t.RefreshToken, &t.Valid, &t.ExpiresIn); err != nil {
			return nil, fmt.Errorf("scan auth token: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate auth tokens: %w", err)
	}
	return items, nil
}

// UpdateRefreshed replaces the token pair and expiry of the record with id.
func (r *AuthTokenRepositoryPG) UpdateRefreshed(ctx context.Context, id, token, refreshToken string, expiresIn int64) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateAuthToken, id, token, refreshToken, expiresIn)
	if err != nil {
		return fmt.Errorf("update auth token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
