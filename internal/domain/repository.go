package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	ResetFreeQuota(ctx context.Context) (int64, error)
}

// ReferralRepository persists referral tokens.
type ReferralRepository interface {
	// Redeem atomically consumes token and grants its duration to userID.
	// It returns ErrInvalidReferralCode when no claimable token exists and
	// ErrInvalidUser when the user is unknown; neither case writes anything.
	Redeem(ctx context.Context, token, userID string, now time.Time, enforceExpiry bool) (*Grant, error)
	Create(ctx context.Context, token ReferralToken) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthTokenRepository persists third-party auth tokens.
type AuthTokenRepository interface {
	List(ctx context.Context) ([]AuthToken, error)
	UpdateRefreshed(ctx context.Context, id, token, refreshToken string, expiresIn int64) error
}

// ReleaseRepository reads the release catalog.
type ReleaseRepository interface {
	GetByVersion(ctx context.Context, version float64) (*Release, error)
	Latest(ctx context.Context) (*Release, error)
	Upsert(ctx context.Context, release Release) error
}
