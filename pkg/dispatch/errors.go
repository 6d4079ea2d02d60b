package dispatch

import "errors"

var (
	ErrInvalidTargeting    = errors.New("dispatch: exactly one of user id, user ids or role ids must be set")
	ErrMissingType         = errors.New("dispatch: notification type is required")
	ErrMissingTitle        = errors.New("dispatch: notification title is required")
	ErrInvalidPriority     = errors.New("dispatch: invalid priority")
	ErrAllRecipientsFailed = errors.New("dispatch: persistence failed for every recipient")
	ErrUnknownChannel      = errors.New("dispatch: unknown channel kind")
	ErrRecipientNotFound   = errors.New("dispatch: recipient not found")
	ErrNothingToMark       = errors.New("dispatch: no notification ids given")
)
