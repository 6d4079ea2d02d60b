package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edukhmer/notifykit/pkg/logger"
)

// JobFunc is the body of a periodic job. Jobs are expected to be short; the
// runner gives no overlap guarantee for a job outliving its own period.
type JobFunc func(ctx context.Context) error

// job holds one registered periodic job and its run state.
type job struct {
	name     string
	schedule Schedule
	run      JobFunc
	lastRun  *time.Time
}

// Runner executes registered jobs in-process on their schedules. Due jobs
// run in their own goroutine; a panicking job is recovered and logged
// without taking the runner down.
type Runner struct {
	jobs     map[string]*job
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
	wg       sync.WaitGroup
	mu       sync.RWMutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCheckInterval sets how often the runner polls for due jobs. Default is
// 30 seconds.
func WithCheckInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLogger sets the logger for the Runner.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner creates an empty job runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		jobs:     make(map[string]*job),
		interval: 30 * time.Second,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddJob registers a periodic job under a unique name.
func (r *Runner) AddJob(name string, schedule Schedule, fn JobFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, name)
	}
	r.jobs[name] = &job{name: name, schedule: schedule, run: fn}

	r.logger.Info("registered periodic job",
		slog.String("job", name),
		slog.String("schedule", schedule.String()))
	return nil
}

// Start runs the check loop until the context is cancelled, then waits for
// in-flight jobs to finish. It returns the context's error on shutdown.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.RLock()
	count := len(r.jobs)
	r.mu.RUnlock()
	if count == 0 {
		return ErrNoJobsRegistered
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.checkJobs(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scheduler shutting down")
			r.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			r.checkJobs(ctx)
		}
	}
}

// checkJobs starts every due job in its own goroutine.
func (r *Runner) checkJobs(ctx context.Context) {
	now := r.now()

	r.mu.Lock()
	var due []*job
	for _, j := range r.jobs {
		if j.lastRun == nil || !j.schedule.Next(*j.lastRun).After(now) {
			at := now
			j.lastRun = &at
			due = append(due, j)
		}
	}
	r.mu.Unlock()

	for _, j := range due {
		r.wg.Add(1)
		go r.runJob(ctx, j)
	}
}

func (r *Runner) runJob(ctx context.Context, j *job) {
	defer r.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.LogAttrs(ctx, slog.LevelError, "periodic job panicked",
				logger.Job(j.name),
				slog.Any("panic", rec),
			)
		}
	}()

	start := r.now()
	if err := j.run(ctx); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "periodic job failed",
			logger.Job(j.name),
			logger.Error(err),
		)
		return
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "periodic job completed",
		logger.Job(j.name),
		slog.Duration("took", time.Since(start)),
	)
}
