package preference

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing.
type MemoryStore struct {
	records map[string]Preferences
	mu      sync.Mutex
}

// NewMemoryStore creates a new in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Preferences),
	}
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, userID string) (*Preferences, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	// Single lock covers the check-then-create, so concurrent first access
	// cannot create two records for the same user.
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.records[userID]; ok {
		cp := p
		return &cp, nil
	}

	p := Default(userID)
	s.records[userID] = p
	cp := p
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, p Preferences) error {
	if p.UserID == "" {
		return ErrMissingUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[p.UserID]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	p.UpdatedAt = time.Now()
	s.records[p.UserID] = p
	return nil
}

func (s *MemoryStore) ListByEmailFrequency(ctx context.Context, f Frequency) ([]Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Preferences
	for _, p := range s.records {
		if p.Email.Enabled && p.Email.Frequency == f {
			out = append(out, p)
		}
	}
	return out, nil
}
