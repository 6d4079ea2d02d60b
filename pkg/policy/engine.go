package policy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/edukhmer/notifykit/pkg/channel"
	"github.com/edukhmer/notifykit/pkg/logger"
	"github.com/edukhmer/notifykit/pkg/notification"
	"github.com/edukhmer/notifykit/pkg/preference"
)

// PreferenceGetter is the slice of the preference service the engine needs.
type PreferenceGetter interface {
	GetOrCreate(ctx context.Context, userID string) (*preference.Preferences, error)
}

// Engine decides, for one (notification, recipient) pair, which channels
// fire and whether delivery is suppressed by quiet hours.
type Engine struct {
	prefs  PreferenceGetter
	push   channel.Channel
	email  channel.Channel
	sms    channel.Channel
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger for the Engine.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source. Used by tests to pin quiet-hour
// evaluation.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a delivery policy engine over the three channels. Any
// channel may be nil to disable it outright.
func NewEngine(prefs PreferenceGetter, push, email, sms channel.Channel, opts ...EngineOption) *Engine {
	e := &Engine{
		prefs:  prefs,
		push:   push,
		email:  email,
		sms:    sms,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Deliver applies the recipient's preferences and fires the eligible
// channels. Each send is independently recovered: one channel failing never
// affects the others, and nothing here touches the stored notification row.
//
// Quiet hours silence everything, the ambient push included. Digest-scoped
// email (daily/weekly frequency) is never sent here; the digest jobs sweep
// it on their own schedule.
func (e *Engine) Deliver(ctx context.Context, n notification.Notification, rcpt notification.Recipient) ([]channel.Outcome, error) {
	prefs, err := e.prefs.GetOrCreate(ctx, rcpt.ID)
	if err != nil {
		return nil, err
	}

	if InQuietHours(prefs.QuietHoursStart, prefs.QuietHoursEnd, e.now().In(prefs.Location())) {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "delivery suppressed by quiet hours",
			logger.UserID(rcpt.ID),
			logger.NotificationID(n.ID),
		)
		return nil, nil
	}

	var outcomes []channel.Outcome

	// Push always fires outside quiet hours: it carries the in-app record
	// the client already owns, so preference gating applies only to the
	// outbound channels. InApp settings shape client presentation, not
	// delivery.
	if e.push != nil {
		outcomes = append(outcomes, e.attempt(ctx, e.push, rcpt, n)...)
	}
	if e.email != nil && prefs.EmailWants(n.Type) && prefs.Email.Frequency == preference.FrequencyImmediate {
		outcomes = append(outcomes, e.attempt(ctx, e.email, rcpt, n)...)
	}
	if e.sms != nil && prefs.SMSWants(n.Type) {
		outcomes = append(outcomes, e.attempt(ctx, e.sms, rcpt, n)...)
	}

	return outcomes, nil
}

// attempt runs one channel send in its own failure domain. A missing
// contact point is a silent skip with no outcome recorded.
func (e *Engine) attempt(ctx context.Context, ch channel.Channel, rcpt notification.Recipient, n notification.Notification) []channel.Outcome {
	err := ch.Send(ctx, rcpt, n)
	if errors.Is(err, channel.ErrNoContact) {
		return nil
	}
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelError, "channel delivery failed",
			logger.Channel(ch.Name()),
			logger.UserID(rcpt.ID),
			logger.NotificationID(n.ID),
			logger.NotificationType(string(n.Type)),
			logger.Error(err),
		)
		return []channel.Outcome{{Channel: ch.Name(), Succeeded: false, Err: err}}
	}
	return []channel.Outcome{{Channel: ch.Name(), Succeeded: true}}
}
