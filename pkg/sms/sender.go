package sms

import "context"

// Sender dispatches SMS messages through a provider gateway.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// NoopSender silently accepts every send. It is used when no SMS gateway is
// configured: sends are silent no-ops, not errors.
type NoopSender struct{}

func (NoopSender) SendSMS(ctx context.Context, to, body string) error {
	return nil
}
