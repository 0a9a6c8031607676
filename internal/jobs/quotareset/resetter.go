package quotareset

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"valtech/internal/notify"
)

// Name identifies the task in logs and metrics.
const Name = "quota-reset"

type quotaStore interface {
	ResetFreeQuota(ctx context.Context) (int64, error)
}

// Resetter zeroes the daily quota of every non-premium user.
type Resetter struct {
	users    quotaStore
	notifier notify.Notifier
	logger   zerolog.Logger
}

func New(users quotaStore, notifier notify.Notifier, logger zerolog.Logger) *Resetter {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Resetter{users: users, notifier: notifier, logger: logger}
}

func (r *Resetter) Name() string { return Name }

func (r *Resetter) Run(ctx context.Context) error {
	n, err := r.users.ResetFreeQuota(ctx)
	if err != nil {
		return fmt.Errorf("reset free quota: %w", err)
	}
	r.logger.Info().Int64("users", n).Msg("quota reset for non premium users")
	r.notifier.Notify(ctx, "Cleared quota for non premium users!")
	return nil
}
