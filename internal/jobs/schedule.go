package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule decides how long a loop sleeps before its next cycle. start is
// the moment the loop began and now is the moment the previous cycle ended.
type Schedule interface {
	Next(start, now time.Time) time.Duration
}

type fixedRate struct{ period time.Duration }

// FixedRate keeps cycles aligned to start + k*period regardless of how long
// each cycle takes.
func FixedRate(period time.Duration) Schedule { return fixedRate{period: period} }

func (s fixedRate) Next(start, now time.Time) time.Duration {
	if s.period <= 0 {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	return s.period - elapsed%s.period
}

type fixedDelay struct{ delay time.Duration }

// FixedDelay sleeps d after every cycle.
func FixedDelay(d time.Duration) Schedule { return fixedDelay{delay: d} }

func (s fixedDelay) Next(time.Time, time.Time) time.Duration { return s.delay }

type cronSchedule struct {
	spec cron.Schedule
	loc  *time.Location
}

// Cron parses a standard five-field expression evaluated in loc (UTC when nil).
func Cron(expr string, loc *time.Location) (Schedule, error) {
	spec, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron %q: %w", expr, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return cronSchedule{spec: spec, loc: loc}, nil
}

func (s cronSchedule) Next(_, now time.Time) time.Duration {
	local := now.In(s.loc)
	return s.spec.Next(local).Sub(local)
}
