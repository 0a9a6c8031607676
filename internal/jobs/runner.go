package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"valtech/internal/metrics"
)

// Task is one unit of periodic work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

type funcTask struct {
	name string
	fn   func(ctx context.Context) error
}

func (t funcTask) Name() string                  { return t.name }
func (t funcTask) Run(ctx context.Context) error { return t.fn(ctx) }

// Func adapts a function into a Task.
func Func(name string, fn func(ctx context.Context) error) Task {
	return funcTask{name: name, fn: fn}
}

// Loop binds a task to its schedule. Immediate runs the first cycle at start
// instead of waiting for the schedule.
type Loop struct {
	Task      Task
	Schedule  Schedule
	Immediate bool
}

// Runner drives loops in their own goroutines.
type Runner struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger, now: time.Now}
}

// Handle controls a set of running loops.
type Handle struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

// Stop cancels every loop and waits for in-flight cycles to return.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once every loop has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start launches loops. They exit when ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context, loops ...Loop) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	for _, l := range loops {
		h.wg.Add(1)
		go func(l Loop) {
			defer h.wg.Done()
			r.runLoop(ctx, l)
		}(l)
	}
	go func() {
		h.wg.Wait()
		close(h.done)
	}()
	return h
}

func (r *Runner) runLoop(ctx context.Context, l Loop) {
	name := l.Task.Name()
	log := r.logger.With().Str("task", name).Logger()
	start := r.now()
	log.Info().Bool("immediate", l.Immediate).Msg("jobs: loop started")
	defer log.Info().Msg("jobs: loop stopped")

	if !l.Immediate && !sleep(ctx, l.Schedule.Next(start, r.now())) {
		return
	}
	for {
		r.runCycle(ctx, l.Task, log)
		if !sleep(ctx, l.Schedule.Next(start, r.now())) {
			return
		}
	}
}

func (r *Runner) runCycle(ctx context.Context, task Task, log zerolog.Logger) {
	began := r.now()
	err := safeRun(ctx, task)
	metrics.RecordJobRun(task.Name(), err == nil, r.now().Sub(began))
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("jobs: cycle failed")
	}
}

func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return task.Run(ctx)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
