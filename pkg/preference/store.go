package preference

import "context"

// Store persists preference records. GetOrCreate must be atomic: concurrent
// first access for the same user must not produce duplicate rows.
type Store interface {
	// GetOrCreate returns the user's preferences, creating and persisting
	// the default record on first access.
	GetOrCreate(ctx context.Context, userID string) (*Preferences, error)

	// Save overwrites the user's preference record.
	Save(ctx context.Context, p Preferences) error

	// ListByEmailFrequency returns every preference record whose email
	// channel is enabled with the given frequency. Used by digest jobs.
	ListByEmailFrequency(ctx context.Context, f Frequency) ([]Preferences, error)
}
