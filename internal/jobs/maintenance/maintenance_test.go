package maintenance

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"valtech/internal/adapter/repo"
	"valtech/internal/infra"
	"valtech/internal/jobs/quotareset"
	"valtech/internal/jobs/referralsweep"
	"valtech/internal/jobs/tokenrefresh"
	"valtech/internal/notify"
)

func testConfig() *infra.Config {
	return &infra.Config{
		QuotaResetCron:        "0 0 * * *",
		TokenRefreshInterval:  1800 * time.Second,
		ReferralSweepInterval: 5 * time.Second,
	}
}

func TestLoopsWiring(t *testing.T) {
	loops, err := Loops(testConfig(), &repo.Store{}, notify.Nop{}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, loops, 3)

	start := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	byName := map[string]time.Duration{}
	immediate := map[string]bool{}
	for _, l := range loops {
		byName[l.Task.Name()] = l.Schedule.Next(start, start.Add(10*time.Second))
		immediate[l.Task.Name()] = l.Immediate
	}

	require.Equal(t, 1790*time.Second, byName[tokenrefresh.Name])
	require.Equal(t, 5*time.Second, byName[referralsweep.Name])
	require.Equal(t, 11*time.Hour+59*time.Minute+50*time.Second, byName[quotareset.Name])
	require.True(t, immediate[tokenrefresh.Name])
	require.True(t, immediate[referralsweep.Name])
	require.False(t, immediate[quotareset.Name])
}

func TestLoopsRejectsBadCron(t *testing.T) {
	cfg := testConfig()
	cfg.QuotaResetCron = "every midnight"
	_, err := Loops(cfg, &repo.Store{}, notify.Nop{}, zerolog.Nop())
	require.Error(t, err)
}
