package channel

import (
	"context"

	"github.com/edukhmer/notifykit/pkg/notification"
	"github.com/edukhmer/notifykit/pkg/sms"
)

// SMS sends the notification title and message as a text. Recipients
// without a phone number are skipped silently, and an unconfigured gateway
// makes every send a no-op.
type SMS struct {
	sender sms.Sender
}

// NewSMS creates the SMS channel.
func NewSMS(sender sms.Sender) *SMS {
	return &SMS{sender: sender}
}

func (s *SMS) Name() string { return string(KindSMS) }

func (s *SMS) Send(ctx context.Context, rcpt notification.Recipient, n notification.Notification) error {
	if rcpt.Phone == "" {
		return ErrNoContact
	}

	body := n.Title
	if n.Message != "" {
		body += ": " + n.Message
	}
	return s.sender.SendSMS(ctx, rcpt.Phone, body)
}
