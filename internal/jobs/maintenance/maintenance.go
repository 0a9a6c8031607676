// Package maintenance assembles the background loops shared by cmd/api and
// cmd/worker.
package maintenance

import (
	"time"

	"github.com/rs/zerolog"

	"valtech/internal/adapter/repo"
	"valtech/internal/infra"
	"valtech/internal/infra/credentials"
	"valtech/internal/jobs"
	"valtech/internal/jobs/quotareset"
	"valtech/internal/jobs/referralsweep"
	"valtech/internal/jobs/tokenrefresh"
	"valtech/internal/notify"
	"valtech/internal/providers/firebase"
)

// Loops returns the token refresher, quota resetter and referral sweeper.
func Loops(cfg *infra.Config, store *repo.Store, notifier notify.Notifier, logger zerolog.Logger) ([]jobs.Loop, error) {
	daily, err := jobs.Cron(cfg.QuotaResetCron, time.UTC)
	if err != nil {
		return nil, err
	}

	fbLogger := infra.Component(logger, "firebase")
	client := firebase.NewClient(firebase.Options{
		InitURL:        cfg.FirebaseInitURL,
		TokenURL:       cfg.FirebaseTokenURL,
		RequestTimeout: cfg.FirebaseHTTPTimeout,
		Logger:         &fbLogger,
	})

	return []jobs.Loop{
		{
			Task: tokenrefresh.New(store.AuthTokens, client, infra.Component(logger, tokenrefresh.Name)).
				WithKeyCache(credentials.NewStore(store.SQL)),
			Schedule:  jobs.FixedRate(cfg.TokenRefreshInterval),
			Immediate: true,
		},
		{
			Task:     quotareset.New(store.Users, notifier, infra.Component(logger, quotareset.Name)),
			Schedule: daily,
		},
		{
			Task:      referralsweep.New(store.Referrals, infra.Component(logger, referralsweep.Name)),
			Schedule:  jobs.FixedDelay(cfg.ReferralSweepInterval),
			Immediate: true,
		},
	}, nil
}
