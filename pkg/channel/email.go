package channel

import (
	"context"

	"github.com/edukhmer/notifykit/pkg/email"
	"github.com/edukhmer/notifykit/pkg/notification"
)

// Email renders the notification template and dispatches through an
// EmailSender. Recipients without an email address are skipped silently.
type Email struct {
	sender  email.EmailSender
	appName string
}

// NewEmail creates the email channel. appName shows up in the mail footer.
func NewEmail(sender email.EmailSender, appName string) *Email {
	return &Email{sender: sender, appName: appName}
}

func (e *Email) Name() string { return string(KindEmail) }

func (e *Email) Send(ctx context.Context, rcpt notification.Recipient, n notification.Notification) error {
	if rcpt.Email == "" {
		return ErrNoContact
	}

	actions := make([]email.ActionLink, 0, len(n.Actions))
	for _, a := range n.Actions {
		actions = append(actions, email.ActionLink{
			Label:   a.Label,
			URL:     a.URL,
			Primary: a.Primary,
		})
	}

	body, err := email.RenderNotification(ctx, email.NotificationEmailData{
		AppName:  e.appName,
		Title:    n.Title,
		Message:  n.Message,
		Priority: string(n.Priority),
		Actions:  actions,
	})
	if err != nil {
		return err
	}

	return e.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   rcpt.Email,
		Subject:  n.Title,
		BodyHTML: body,
		Tag:      string(n.Type),
	})
}
