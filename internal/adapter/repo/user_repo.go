package repo

import (
	"context"
	"fmt"

	"valtech/internal/domain"
	"valtech/internal/infra"
	"valtech/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.TxExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.TxExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// GetByID fetches a user by its opaque id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id)
	if err := row.Scan(&u.ID, &u.QuotaUsed, &u.Premium, &u.PremiumTill); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// ResetFreeQuota zeroes quotaused for every non-premium user in one
// transaction and returns the number of rows touched.
func (r *UserRepositoryPG) ResetFreeQuota(ctx context.Context) (int64, error) {
	var affected int64
	err := r.sql.WithTx(ctx, func(ctx context.Context, tx infra.SQLExecutor) error {
		tag, err := tx.Exec(ctx, sqlinline.QResetFreeQuota)
		if err != nil {
			return fmt.Errorf("reset free quota: %w", err)
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
