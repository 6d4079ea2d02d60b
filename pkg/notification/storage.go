package notification

import (
	"context"
	"time"
)

// ListFilter narrows and paginates a notification listing. Zero values mean
// "no constraint"; Limit 0 means no page cap.
type ListFilter struct {
	Read       *bool      // filter by read state
	Types      []Type     // if set, only these types
	Priorities []Priority // if set, only these priorities
	From       *time.Time // created at or after
	To         *time.Time // created at or before
	Page       int        // 1-based; values < 1 are treated as 1
	Limit      int        // page size
}

// Stats aggregates a user's notification counts.
type Stats struct {
	Total      int              `json:"total"`
	Unread     int              `json:"unread"`
	ByType     map[Type]int     `json:"by_type"`
	ByPriority map[Priority]int `json:"by_priority"`
}

// Storage handles notification persistence and retrieval. Expired rows are
// invisible to reads; only DeleteExpired touches them.
type Storage interface {
	// Create stores a new notification row.
	Create(ctx context.Context, n Notification) error

	// Get retrieves a single notification scoped to its recipient.
	Get(ctx context.Context, userID, id string) (*Notification, error)

	// List returns a page of the user's notifications, newest first,
	// along with the total count matching the filter.
	List(ctx context.Context, userID string, f ListFilter) ([]Notification, int, error)

	// CountUnread returns the unread count for a user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// Stats returns aggregate counts by type and priority for a user.
	Stats(ctx context.Context, userID string) (*Stats, error)

	// MarkRead marks the given notifications read, all with the same
	// timestamp. Unknown ids are ignored.
	MarkRead(ctx context.Context, userID string, at time.Time, ids ...string) error

	// MarkAllRead marks every unread notification read and returns the
	// affected ids.
	MarkAllRead(ctx context.Context, userID string, at time.Time) ([]string, error)

	// Delete removes notifications owned by the user.
	Delete(ctx context.Context, userID string, ids ...string) error

	// DeleteExpired removes every notification whose expiry is before the
	// cutoff, across all users, and returns the count deleted.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)

	// ListDigestCandidates returns the user's unread notifications created
	// strictly before olderThan that have not yet been included in a digest.
	ListDigestCandidates(ctx context.Context, userID string, olderThan time.Time) ([]Notification, error)

	// MarkDigestSent flags notifications as included in a digest so they are
	// never re-included by a subsequent run.
	MarkDigestSent(ctx context.Context, userID string, ids ...string) error
}
