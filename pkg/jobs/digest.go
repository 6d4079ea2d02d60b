package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edukhmer/notifykit/pkg/email"
	"github.com/edukhmer/notifykit/pkg/logger"
	"github.com/edukhmer/notifykit/pkg/notification"
	"github.com/edukhmer/notifykit/pkg/preference"
)

// UserResolver resolves a user id to a deliverable recipient. The dispatch
// Directory satisfies it.
type UserResolver interface {
	Get(ctx context.Context, userID string) (*notification.Recipient, error)
}

// DigestMailer batches lingering unread notifications into one summary
// email per user. A notification enters at most one digest ever: after a
// successful send the rows are marked and never picked up again.
type DigestMailer struct {
	storage   notification.Storage
	prefs     preference.Store
	users     UserResolver
	sender    email.EmailSender
	frequency preference.Frequency
	lookback  time.Duration
	appName   string
	logger    *slog.Logger
	now       func() time.Time
}

// DigestOption configures a DigestMailer.
type DigestOption func(*DigestMailer)

// WithDigestLogger sets the logger for the DigestMailer.
func WithDigestLogger(l *slog.Logger) DigestOption {
	return func(d *DigestMailer) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDigestClock overrides the time source. Used by tests.
func WithDigestClock(now func() time.Time) DigestOption {
	return func(d *DigestMailer) {
		if now != nil {
			d.now = now
		}
	}
}

// WithAppName sets the product name rendered in digest emails.
func WithAppName(name string) DigestOption {
	return func(d *DigestMailer) {
		if name != "" {
			d.appName = name
		}
	}
}

// NewDailyDigestMailer creates the daily digest job: users on the daily
// email frequency get one summary of notifications unread for over a day.
func NewDailyDigestMailer(storage notification.Storage, prefs preference.Store, users UserResolver, sender email.EmailSender, opts ...DigestOption) *DigestMailer {
	return newDigestMailer(storage, prefs, users, sender, preference.FrequencyDaily, 24*time.Hour, opts...)
}

// NewWeeklyDigestMailer creates the weekly digest job with a seven-day
// lookback for users on the weekly email frequency.
func NewWeeklyDigestMailer(storage notification.Storage, prefs preference.Store, users UserResolver, sender email.EmailSender, opts ...DigestOption) *DigestMailer {
	return newDigestMailer(storage, prefs, users, sender, preference.FrequencyWeekly, 7*24*time.Hour, opts...)
}

func newDigestMailer(storage notification.Storage, prefs preference.Store, users UserResolver, sender email.EmailSender, f preference.Frequency, lookback time.Duration, opts ...DigestOption) *DigestMailer {
	d := &DigestMailer{
		storage:   storage,
		prefs:     prefs,
		users:     users,
		sender:    sender,
		frequency: f,
		lookback:  lookback,
		appName:   "MentorHub",
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run sends one digest to every eligible user. Users are isolated failure
// domains: one bad address or mail error never stops the sweep.
func (d *DigestMailer) Run(ctx context.Context) error {
	subscribers, err := d.prefs.ListByEmailFrequency(ctx, d.frequency)
	if err != nil {
		return fmt.Errorf("failed to list digest subscribers: %w", err)
	}

	sent := 0
	for _, prefs := range subscribers {
		ok, err := d.sendOne(ctx, prefs)
		if err != nil {
			d.logger.LogAttrs(ctx, slog.LevelError, "digest delivery failed",
				logger.Job(d.jobName()),
				logger.UserID(prefs.UserID),
				logger.Error(err),
			)
			continue
		}
		if ok {
			sent++
		}
	}

	d.logger.LogAttrs(ctx, slog.LevelInfo, "digest sweep completed",
		logger.Job(d.jobName()),
		logger.Count(sent),
	)
	return nil
}

// sendOne builds and sends the digest for a single user. It reports whether
// an email actually went out; users with nothing pending or no address are
// skipped silently.
func (d *DigestMailer) sendOne(ctx context.Context, prefs preference.Preferences) (bool, error) {
	windowStart := d.now().Add(-d.lookback)
	candidates, err := d.storage.ListDigestCandidates(ctx, prefs.UserID, windowStart)
	if err != nil {
		return false, err
	}
	if len(candidates) == 0 {
		return false, nil
	}

	rcpt, err := d.users.Get(ctx, prefs.UserID)
	if err != nil {
		return false, err
	}
	// unknown user or no address is a silent skip, not a failure
	if rcpt == nil || rcpt.Email == "" {
		return false, nil
	}

	loc := prefs.Location()
	items := make([]email.DigestItem, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, n := range candidates {
		items = append(items, email.DigestItem{
			Title:     n.Title,
			Message:   n.Message,
			Timestamp: n.CreatedAt.In(loc).Format("Jan 2, 15:04"),
			Type:      string(n.Type),
			Priority:  string(n.Priority),
		})
		ids = append(ids, n.ID)
	}

	body, err := email.RenderDigest(ctx, email.DigestEmailData{
		AppName:   d.appName,
		Period:    d.period(),
		Recipient: rcpt.Name,
		Items:     items,
	})
	if err != nil {
		return false, err
	}

	err = d.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   rcpt.Email,
		Subject:  fmt.Sprintf("Your %s notification digest", d.period()),
		BodyHTML: body,
		Tag:      d.jobName(),
	})
	if err != nil {
		return false, err
	}

	// marked only after a successful send; a crash in between re-sends
	if err := d.storage.MarkDigestSent(ctx, prefs.UserID, ids...); err != nil {
		return true, err
	}
	return true, nil
}

func (d *DigestMailer) period() string {
	if d.frequency == preference.FrequencyWeekly {
		return "weekly"
	}
	return "daily"
}

func (d *DigestMailer) jobName() string {
	if d.frequency == preference.FrequencyWeekly {
		return "weekly-digest"
	}
	return "daily-digest"
}
