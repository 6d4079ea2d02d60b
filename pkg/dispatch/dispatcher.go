package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edukhmer/notifykit/pkg/channel"
	"github.com/edukhmer/notifykit/pkg/logger"
	"github.com/edukhmer/notifykit/pkg/notification"
)

// Directory resolves user identities to deliverable recipients. It is the
// caller's user store, consumed behind a narrow interface.
type Directory interface {
	// Get resolves a single user.
	Get(ctx context.Context, userID string) (*notification.Recipient, error)

	// GetMany resolves a batch of users. Unknown ids are simply absent from
	// the result.
	GetMany(ctx context.Context, userIDs []string) ([]notification.Recipient, error)

	// FindByRoles resolves every user holding at least one of the roles.
	FindByRoles(ctx context.Context, roleIDs []string) ([]notification.Recipient, error)
}

// SendRequest targets a notification at exactly one of: a single user, an
// explicit user list, or every holder of the given roles.
type SendRequest struct {
	UserID  string   `json:"user_id,omitempty"`
	UserIDs []string `json:"user_ids,omitempty"`
	RoleIDs []string `json:"role_ids,omitempty"`

	Type     notification.Type     `json:"type"`
	Title    string                `json:"title"`
	Message  string                `json:"message"`
	Priority notification.Priority `json:"priority,omitempty"`
	Data     map[string]any        `json:"data,omitempty"`
	Actions  []notification.Action `json:"actions,omitempty"`
	GroupID  string                `json:"group_id,omitempty"`

	// ExpiresAt makes the notification invisible after this time; the reaper
	// removes the row later.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Validate checks targeting and required fields.
func (r SendRequest) Validate() error {
	targets := 0
	if r.UserID != "" {
		targets++
	}
	if len(r.UserIDs) > 0 {
		targets++
	}
	if len(r.RoleIDs) > 0 {
		targets++
	}
	if targets != 1 {
		return ErrInvalidTargeting
	}
	if r.Type == "" {
		return ErrMissingType
	}
	if r.Title == "" {
		return ErrMissingTitle
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, r.Priority)
	}
	return nil
}

// Deliverer is the policy engine seam the dispatcher fans out through.
type Deliverer interface {
	Deliver(ctx context.Context, n notification.Notification, rcpt notification.Recipient) ([]channel.Outcome, error)
}

// Dispatcher resolves recipients and fans a notification out to each of
// them: one stored row per recipient, then policy-gated channel delivery.
type Dispatcher struct {
	storage     notification.Storage
	directory   Directory
	policy      Deliverer
	logger      *slog.Logger
	concurrency int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger for the Dispatcher.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithConcurrency bounds the per-request fan-out worker count. Default is 8.
func WithConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// NewDispatcher creates a fan-out dispatcher.
func NewDispatcher(storage notification.Storage, directory Directory, deliverer Deliverer, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage:     storage,
		directory:   directory,
		policy:      deliverer,
		logger:      slog.Default(),
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send fans the request out to every resolved recipient and returns the
// number of notification rows created. Zero recipients is a successful
// no-op. For each recipient the row is persisted before any channel fires;
// there is no ordering between recipients. One recipient failing never stops
// the others, but if persistence fails for every recipient the call fails.
func (d *Dispatcher) Send(ctx context.Context, req SendRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	recipients, err := d.resolve(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		d.logger.LogAttrs(ctx, slog.LevelDebug, "send resolved no recipients",
			logger.NotificationType(string(req.Type)),
		)
		return 0, nil
	}

	var (
		mu       sync.Mutex
		created  int
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, rcpt := range recipients {
		g.Go(func() error {
			n := d.build(req, rcpt.ID)

			if err := d.storage.Create(gctx, n); err != nil {
				d.logger.LogAttrs(gctx, slog.LevelError, "failed to persist notification",
					logger.UserID(rcpt.ID),
					logger.NotificationType(string(n.Type)),
					logger.Error(err),
				)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}

			mu.Lock()
			created++
			mu.Unlock()

			if _, err := d.policy.Deliver(gctx, n, rcpt); err != nil {
				d.logger.LogAttrs(gctx, slog.LevelError, "delivery evaluation failed",
					logger.UserID(rcpt.ID),
					logger.NotificationID(n.ID),
					logger.Error(err),
				)
			}
			return nil
		})
	}

	// workers never return errors; failures are collected under the mutex
	_ = g.Wait()

	if created == 0 && firstErr != nil {
		return 0, fmt.Errorf("%w: %w", ErrAllRecipientsFailed, firstErr)
	}
	return created, nil
}

// resolve turns the request targeting into a deduplicated recipient list.
func (d *Dispatcher) resolve(ctx context.Context, req SendRequest) ([]notification.Recipient, error) {
	var (
		recipients []notification.Recipient
		err        error
	)
	switch {
	case req.UserID != "":
		var rcpt *notification.Recipient
		rcpt, err = d.directory.Get(ctx, req.UserID)
		if rcpt != nil {
			recipients = []notification.Recipient{*rcpt}
		}
	case len(req.UserIDs) > 0:
		recipients, err = d.directory.GetMany(ctx, req.UserIDs)
	default:
		recipients, err = d.directory.FindByRoles(ctx, req.RoleIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}

	seen := make(map[string]struct{}, len(recipients))
	out := recipients[:0]
	for _, rcpt := range recipients {
		if rcpt.ID == "" {
			continue
		}
		if _, dup := seen[rcpt.ID]; dup {
			continue
		}
		seen[rcpt.ID] = struct{}{}
		out = append(out, rcpt)
	}
	return out, nil
}

// build materializes one per-recipient row from the request.
func (d *Dispatcher) build(req SendRequest, recipientID string) notification.Notification {
	n := notification.New(recipientID, req.Type, req.Title, req.Message)
	if req.Priority != "" {
		n.Priority = req.Priority
	}
	if len(req.Data) > 0 {
		n.Data = make(map[string]any, len(req.Data))
		for k, v := range req.Data {
			n.Data[k] = v
		}
	}
	n.Actions = req.Actions
	n.GroupID = req.GroupID
	n.ExpiresAt = req.ExpiresAt
	return n
}
