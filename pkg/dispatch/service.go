package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edukhmer/notifykit/pkg/channel"
	"github.com/edukhmer/notifykit/pkg/logger"
	"github.com/edukhmer/notifykit/pkg/notification"
	"github.com/edukhmer/notifykit/pkg/preference"
	"github.com/edukhmer/notifykit/pkg/realtime"
)

// Notifier pushes state-change events to a user's live connections. The
// realtime registry satisfies it.
type Notifier interface {
	SendToUser(ctx context.Context, userID, event string, payload any)
}

// ListResult is one page of a user's notifications with the counters the
// client renders alongside it.
type ListResult struct {
	Items       []notification.Notification `json:"items"`
	Total       int                         `json:"total"`
	UnreadCount int                         `json:"unread_count"`
}

// Service is the inbound API surface. Callers are already authenticated and
// authorized; every method takes the acting user explicitly and only touches
// that user's rows.
type Service struct {
	storage    notification.Storage
	prefs      *preference.Service
	dispatcher *Dispatcher
	directory  Directory
	notifier   Notifier
	channels   map[channel.Kind]channel.Channel
	logger     *slog.Logger
	now        func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger for the Service.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTestChannel registers a channel for SendTest lookups.
func WithTestChannel(kind channel.Kind, ch channel.Channel) ServiceOption {
	return func(s *Service) {
		s.channels[kind] = ch
	}
}

// WithServiceClock overrides the time source, pinned by tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the inbound API over storage, preferences, the fan-out
// dispatcher and the live event notifier.
func NewService(
	storage notification.Storage,
	prefs *preference.Service,
	dispatcher *Dispatcher,
	directory Directory,
	notifier Notifier,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		storage:    storage,
		prefs:      prefs,
		dispatcher: dispatcher,
		directory:  directory,
		notifier:   notifier,
		channels:   make(map[channel.Kind]channel.Channel),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of the user's notifications plus the total match
// count and the user's overall unread count.
func (s *Service) List(ctx context.Context, userID string, f notification.ListFilter) (*ListResult, error) {
	items, total, err := s.storage.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	unread, err := s.storage.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, UnreadCount: unread}, nil
}

// Get returns a single notification owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (*notification.Notification, error) {
	return s.storage.Get(ctx, userID, id)
}

// Stats returns the user's aggregate notification counters.
func (s *Service) Stats(ctx context.Context, userID string) (*notification.Stats, error) {
	return s.storage.Stats(ctx, userID)
}

// GetPreferences returns the user's preferences, creating defaults on first
// access.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*preference.Preferences, error) {
	return s.prefs.GetOrCreate(ctx, userID)
}

// UpdatePreferences applies a partial preference update.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, patch preference.Patch) (*preference.Preferences, error) {
	return s.prefs.Update(ctx, userID, patch)
}

// MarkRead marks one notification read and emits a notification-read event
// so the user's other tabs stay in sync.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.storage.MarkRead(ctx, userID, s.now(), id); err != nil {
		return err
	}
	s.notifier.SendToUser(ctx, userID, realtime.EventNotificationRead, readPayload{ID: id})
	return nil
}

// MarkReadMany marks a set of notifications read with one shared timestamp
// and emits a single notifications-read event carrying the ids.
func (s *Service) MarkReadMany(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return ErrNothingToMark
	}
	if err := s.storage.MarkRead(ctx, userID, s.now(), ids...); err != nil {
		return err
	}
	s.notifier.SendToUser(ctx, userID, realtime.EventNotificationsRead, readManyPayload{IDs: ids})
	return nil
}

// MarkAllRead marks every unread notification read and emits a single
// all-notifications-read event.
func (s *Service) MarkAllRead(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.storage.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	s.notifier.SendToUser(ctx, userID, realtime.EventAllNotificationsRead, readManyPayload{IDs: ids})
	return ids, nil
}

// Delete removes one notification and emits a notification-deleted event.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.notifier.SendToUser(ctx, userID, realtime.EventNotificationDeleted, readPayload{ID: id})
	return nil
}

// Send is the privileged passthrough to the fan-out dispatcher.
func (s *Service) Send(ctx context.Context, req SendRequest) (int, error) {
	return s.dispatcher.Send(ctx, req)
}

// SendTest persists one canned notification for the user and pushes it
// through a single chosen channel, bypassing preference gating so the user
// can verify the channel end to end.
func (s *Service) SendTest(ctx context.Context, userID string, kind channel.Kind) error {
	ch, ok := s.channels[kind]
	if !ok {
		return ErrUnknownChannel
	}

	rcpt, err := s.directory.Get(ctx, userID)
	if err != nil {
		return err
	}
	// directories may signal an unknown user as (nil, nil)
	if rcpt == nil {
		return fmt.Errorf("%w: %s", ErrRecipientNotFound, userID)
	}

	n := notification.New(userID, notification.TypeSystemAlert,
		"Test Notification",
		"This is a test notification to confirm your delivery settings.")
	if err := s.storage.Create(ctx, n); err != nil {
		return err
	}

	if err := ch.Send(ctx, *rcpt, n); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "test notification delivery failed",
			logger.UserID(userID),
			logger.Channel(ch.Name()),
			logger.Error(err),
		)
		return err
	}
	return nil
}

type readPayload struct {
	ID string `json:"id"`
}

type readManyPayload struct {
	IDs []string `json:"ids"`
}
