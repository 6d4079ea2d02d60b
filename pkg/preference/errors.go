package preference

import "errors"

var (
	// ErrMissingUserID is returned when a preference operation has no user.
	ErrMissingUserID = errors.New("user id is required")

	// ErrInvalidQuietHours is returned when a quiet hour bound is outside
	// the minute-of-day range.
	ErrInvalidQuietHours = errors.New("quiet hour bounds must be within 0..1439")

	// ErrInvalidFrequency is returned for unknown email frequencies.
	ErrInvalidFrequency = errors.New("invalid email frequency")
)
