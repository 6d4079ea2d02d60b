package realtime

import "errors"

var (
	// ErrUnauthorized is returned when a connection credential fails
	// verification. No notification data is ever sent over an
	// unauthenticated connection.
	ErrUnauthorized = errors.New("realtime: unauthorized connection")

	// ErrMissingSigningKey is returned when a verifier is created without
	// a key.
	ErrMissingSigningKey = errors.New("realtime: signing key is required")

	// ErrRegistryClosed is returned when connecting to a closed registry.
	ErrRegistryClosed = errors.New("realtime: registry is closed")
)
