package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edukhmer/notifykit/pkg/scheduler"
)

func TestRunnerAddJob(t *testing.T) {
	t.Parallel()

	r := scheduler.NewRunner()
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, r.AddJob("reaper", scheduler.DailyAt(0, 0), noop))
	require.ErrorIs(t, r.AddJob("reaper", scheduler.DailyAt(0, 0), noop),
		scheduler.ErrJobAlreadyRegistered)
}

func TestRunnerStartWithoutJobs(t *testing.T) {
	t.Parallel()

	r := scheduler.NewRunner()
	require.ErrorIs(t, r.Start(context.Background()), scheduler.ErrNoJobsRegistered)
}

func TestRunnerRunsDueJobs(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32
	done := make(chan struct{})

	r := scheduler.NewRunner(scheduler.WithCheckInterval(5 * time.Millisecond))
	err := r.AddJob("counter", scheduler.Every(time.Hour), func(ctx context.Context) error {
		if ran.Add(1) == 1 {
			close(done)
		}
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()

	// the first check fires immediately on start
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	require.Equal(t, int32(1), ran.Load())
}

func TestRunnerIsolatesFailures(t *testing.T) {
	t.Parallel()

	panicked := make(chan struct{})
	healthy := make(chan struct{})

	r := scheduler.NewRunner(scheduler.WithCheckInterval(time.Hour))
	require.NoError(t, r.AddJob("broken", scheduler.Every(time.Hour), func(ctx context.Context) error {
		defer close(panicked)
		panic("boom")
	}))
	require.NoError(t, r.AddJob("failing", scheduler.Every(time.Hour), func(ctx context.Context) error {
		return errors.New("transient")
	}))
	require.NoError(t, r.AddJob("healthy", scheduler.Every(time.Hour), func(ctx context.Context) error {
		close(healthy)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()

	select {
	case <-panicked:
	case <-time.After(2 * time.Second):
		t.Fatal("broken job never ran")
	}
	select {
	case <-healthy:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy job never ran")
	}

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}
