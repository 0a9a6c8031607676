package referralsweep

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"valtech/internal/metrics"
)

const Name = "referral-sweep"

type expiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper removes referral tokens whose expires_in has passed.
type Sweeper struct {
	referrals expiredDeleter
	logger    zerolog.Logger
	now       func() time.Time
}

func New(referrals expiredDeleter, logger zerolog.Logger) *Sweeper {
	return &Sweeper{referrals: referrals, logger: logger, now: time.Now}
}

func (s *Sweeper) Name() string { return Name }

func (s *Sweeper) Run(ctx context.Context) error {
	n, err := s.referrals.DeleteExpired(ctx, s.now())
	if err != nil {
		return fmt.Errorf("sweep expired referrals: %w", err)
	}
	if n > 0 {
		metrics.ReferralsSwept.Add(float64(n))
		s.logger.Debug().Int64("deleted", n).Msg("expired referral tokens removed")
	}
	return nil
}
