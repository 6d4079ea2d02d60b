package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/edukhmer/notifykit/pkg/logger"
	"github.com/edukhmer/notifykit/pkg/notification"
)

// ExpiryReaper permanently removes notifications past their expiry time.
// Expired rows are already invisible to reads, so the reaper is a pure
// cleanup pass and safe to run any number of times.
type ExpiryReaper struct {
	storage notification.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// ReaperOption configures an ExpiryReaper.
type ReaperOption func(*ExpiryReaper)

// WithReaperLogger sets the logger for the ExpiryReaper.
func WithReaperLogger(l *slog.Logger) ReaperOption {
	return func(r *ExpiryReaper) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithReaperClock overrides the time source. Used by tests.
func WithReaperClock(now func() time.Time) ReaperOption {
	return func(r *ExpiryReaper) {
		if now != nil {
			r.now = now
		}
	}
}

// NewExpiryReaper creates the expiry cleanup job.
func NewExpiryReaper(storage notification.Storage, opts ...ReaperOption) *ExpiryReaper {
	r := &ExpiryReaper{
		storage: storage,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run deletes every notification expired as of now and logs the count.
func (r *ExpiryReaper) Run(ctx context.Context) error {
	deleted, err := r.storage.DeleteExpired(ctx, r.now())
	if err != nil {
		return err
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "expired notifications removed",
		logger.Job("expiry-reaper"),
		logger.Count(int(deleted)),
	)
	return nil
}
