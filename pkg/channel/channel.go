package channel

import (
	"context"
	"errors"

	"github.com/edukhmer/notifykit/pkg/notification"
)

// Channel is one delivery capability: real-time push, email or SMS. Each
// channel is an isolated failure domain; errors never affect sibling
// channels or the stored notification row.
type Channel interface {
	// Name identifies the channel in logs and outcomes.
	Name() string

	// Send delivers the notification to the recipient. ErrNoContact means
	// the recipient has no address for this channel and the send was
	// skipped silently.
	Send(ctx context.Context, rcpt notification.Recipient, n notification.Notification) error
}

// Kind names the built-in channels.
type Kind string

const (
	KindPush  Kind = "push"
	KindEmail Kind = "email"
	KindSMS   Kind = "sms"
)

// ErrNoContact signals a missing contact point (no email address, no phone
// number). It is a silent skip, not a delivery failure.
var ErrNoContact = errors.New("channel: recipient has no contact point")

// Outcome is the transient result of one channel send. It is never
// persisted.
type Outcome struct {
	Channel   string `json:"channel"`
	Succeeded bool   `json:"succeeded"`
	Err       error  `json:"-"`
}
