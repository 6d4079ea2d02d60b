package notification

import "errors"

var (
	// ErrNotFound is returned when a notification does not exist or belongs
	// to another user.
	ErrNotFound = errors.New("notification not found")

	// ErrMissingID is returned when a notification without an id is stored.
	ErrMissingID = errors.New("notification id is required")

	// ErrMissingRecipient is returned when a notification has no recipient.
	ErrMissingRecipient = errors.New("recipient id is required")
)
