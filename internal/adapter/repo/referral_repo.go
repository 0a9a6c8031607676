package repo

import (
	"context"
	"fmt"
	"time"

	"valtech/internal/domain"
	"valtech/internal/infra"
	"valtech/internal/sqlinline"
)

// ReferralRepositoryPG implements domain.ReferralRepository backed by PostgreSQL.
type ReferralRepositoryPG struct {
	sql infra.TxExecutor
}

// NewReferralRepository creates a new ReferralRepositoryPG.
func NewReferralRepository(sql infra.TxExecutor) *ReferralRepositoryPG {
	return &ReferralRepositoryPG{sql: sql}
}

// Redeem claims the token with a DELETE ... RETURNING and grants premium in
// the same transaction. The DELETE row lock serialises concurrent claimants,
// so a token yields at most one grant. An unknown user rolls the claim back.
func (r *ReferralRepositoryPG) Redeem(ctx context.Context, token, userID string, now time.Time, enforceExpiry bool) (*domain.Grant, error) {
	var grant *domain.Grant
	err := r.sql.WithTx(ctx, func(ctx context.Context, tx infra.SQLExecutor) error {
		var duration, expiresIn int64
		row := tx.QueryRow(ctx, sqlinline.QClaimReferral, token, now.Unix(), enforceExpiry)
		if err := row.Scan(&duration, &expiresIn); err != nil {
			if infra.IsNoRows(err) {
				return domain.ErrInvalidReferralCode
			}
			return fmt.Errorf("claim referral token: %w", err)
		}

		var premiumTill int64
		row = tx.QueryRow(ctx, sqlinline.QGrantPremium, userID, now.Unix()+duration)
		if err := row.Scan(&premiumTill); err != nil {
			if infra.IsNoRows(err) {
				return domain.ErrInvalidUser
			}
			return fmt.Errorf("grant premium: %w", err)
		}

		grant = &domain.Grant{
			UserID:      userID,
			Token:       token,
			Duration:    duration,
			PremiumTill: premiumTill,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// Create inserts a new referral token.
func (r *ReferralRepositoryPG) Create(ctx context.Context, token domain.ReferralToken) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertReferral, token.Token, token.Duration, token.ExpiresIn); err != nil {
		return fmt.Errorf("insert referral token: %w", err)
	}
	return nil
}

// DeleteExpired purges tokens with expires_in <= now. Zero matches is not an
// error, so it is safe to race with Redeem.
func (r *ReferralRepositoryPG) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.sql.WithTx(ctx, func(ctx context.Context, tx infra.SQLExecutor) error {
		tag, err := tx.Exec(ctx, sqlinline.QDeleteExpiredReferrals, now.Unix())
		if err != nil {
			return fmt.Errorf("delete expired referral tokens: %w", err)
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
