package channel

import (
	"context"

	"github.com/edukhmer/notifykit/pkg/notification"
	"github.com/edukhmer/notifykit/pkg/realtime"
)

// Push emits the full persisted notification as a realtime event on the
// recipient's broadcast group. Push is considered ambient: it carries the
// in-app record the client already owns, so it needs no per-type opt-in.
type Push struct {
	registry *realtime.Registry
}

// NewPush creates the realtime push channel.
func NewPush(registry *realtime.Registry) *Push {
	return &Push{registry: registry}
}

func (p *Push) Name() string { return string(KindPush) }

func (p *Push) Send(ctx context.Context, rcpt notification.Recipient, n notification.Notification) error {
	p.registry.SendToUser(ctx, rcpt.ID, realtime.EventNotification, n)
	return nil
}
