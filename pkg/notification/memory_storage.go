package notification

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing; replace with GormStorage in
// production.
type MemoryStorage struct {
	rows map[string][]Notification // userID -> notifications
	mu   sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		rows: make(map[string][]Notification),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return ErrMissingID
	}
	if n.RecipientID == "" {
		return ErrMissingRecipient
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.rows[n.RecipientID] = append(s.rows[n.RecipientID], n)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID, id string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.rows[userID] {
		if n.ID == id && !n.IsExpired() {
			// Copy to prevent external mutation of stored data.
			cp := n
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// matches applies every filter constraint except pagination.
func matches(n Notification, f ListFilter) bool {
	if n.IsExpired() {
		return false
	}
	if f.Read != nil && n.Read != *f.Read {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, n.Type) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, n.Priority) {
		return false
	}
	if f.From != nil && n.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && n.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func (s *MemoryStorage) List(ctx context.Context, userID string, f ListFilter) ([]Notification, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Notification
	for _, n := range s.rows[userID] {
		if matches(n, f) {
			filtered = append(filtered, n)
		}
	}

	// Newest first, stable for equal timestamps.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)

	page := f.Page
	if page < 1 {
		page = 1
	}
	if f.Limit > 0 {
		start := (page - 1) * f.Limit
		if start >= total {
			return []Notification{}, total, nil
		}
		end := min(start+f.Limit, total)
		filtered = filtered[start:end]
	}

	return filtered, total, nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.rows[userID] {
		if !n.Read && !n.IsExpired() {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) Stats(ctx context.Context, userID string) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByType:     make(map[Type]int),
		ByPriority: make(map[Priority]int),
	}
	for _, n := range s.rows[userID] {
		if n.IsExpired() {
			continue
		}
		stats.Total++
		if !n.Read {
			stats.Unread++
		}
		stats.ByType[n.Type]++
		stats.ByPriority[n.Priority]++
	}
	return stats, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, at time.Time, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	rows := s.rows[userID]
	for i := range rows {
		if _, ok := idSet[rows[i].ID]; ok && !rows[i].Read {
			rows[i].MarkAsRead(at)
		}
	}
	return nil
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, userID string, at time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var marked []string
	rows := s.rows[userID]
	for i := range rows {
		if !rows[i].Read && !rows[i].IsExpired() {
			rows[i].MarkAsRead(at)
			marked = append(marked, rows[i].ID)
		}
	}
	return marked, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	kept := s.rows[userID][:0]
	for _, n := range s.rows[userID] {
		if _, ok := idSet[n.ID]; !ok {
			kept = append(kept, n)
		}
	}
	s.rows[userID] = kept
	return nil
}

func (s *MemoryStorage) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for userID, rows := range s.rows {
		kept := rows[:0]
		for _, n := range rows {
			if n.ExpiresAtBefore(cutoff) {
				deleted++
				continue
			}
			kept = append(kept, n)
		}
		if len(kept) == 0 {
			delete(s.rows, userID)
			continue
		}
		s.rows[userID] = kept
	}
	return deleted, nil
}

func (s *MemoryStorage) ListDigestCandidates(ctx context.Context, userID string, olderThan time.Time) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Notification
	for _, n := range s.rows[userID] {
		if n.Read || n.IsExpired() || n.DigestSent() {
			continue
		}
		if !n.CreatedAt.Before(olderThan) {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStorage) MarkDigestSent(ctx context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	now := time.Now()
	rows := s.rows[userID]
	for i := range rows {
		if _, ok := idSet[rows[i].ID]; ok {
			// Data maps are shared between the stored row and copies handed
			// out earlier, so reattach a fresh map before mutating.
			data := make(map[string]any, len(rows[i].Data)+1)
			for k, v := range rows[i].Data {
				data[k] = v
			}
			rows[i].Data = data
			rows[i].MarkDigestSent(now)
		}
	}
	return nil
}
