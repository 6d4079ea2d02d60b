package sms

import "errors"

var (
	// ErrFailedToSendSMS is returned when the gateway rejects or the
	// transport fails.
	ErrFailedToSendSMS = errors.New("sms.errors.failed_to_send")

	// ErrInvalidNumber is returned when a destination number cannot be
	// normalized.
	ErrInvalidNumber = errors.New("sms.errors.invalid_number")
)
