package preference

import (
	"context"
	"fmt"
)

// Patch is a partial preference update. Nil fields retain the current value;
// the channel blocks are replaced wholesale when present, not merged
// field-by-field.
type Patch struct {
	Email           *EmailSettings `json:"email,omitempty"`
	SMS             *SMSSettings   `json:"sms,omitempty"`
	InApp           *InAppSettings `json:"in_app,omitempty"`
	QuietHoursStart *int           `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *int           `json:"quiet_hours_end,omitempty"`
	ClearQuietHours bool           `json:"clear_quiet_hours,omitempty"`
	Timezone        *string        `json:"timezone,omitempty"`
}

// Service wraps a Store with lazy-default reads and validated partial
// updates.
type Service struct {
	store Store
}

// NewService creates a preference service on top of a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetOrCreate returns the user's preferences, creating the default record on
// first access.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*Preferences, error) {
	return s.store.GetOrCreate(ctx, userID)
}

// Update applies a partial update on top of the user's current record and
// persists the result.
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (*Preferences, error) {
	current, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		if patch.Email.Frequency != "" && !patch.Email.Frequency.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, patch.Email.Frequency)
		}
		email := *patch.Email
		if email.Frequency == "" {
			email.Frequency = FrequencyImmediate
		}
		current.Email = email
	}
	if patch.SMS != nil {
		current.SMS = *patch.SMS
	}
	if patch.InApp != nil {
		current.InApp = *patch.InApp
	}
	if patch.ClearQuietHours {
		current.QuietHoursStart = nil
		current.QuietHoursEnd = nil
	}
	if patch.QuietHoursStart != nil {
		if err := validMinuteOfDay(*patch.QuietHoursStart); err != nil {
			return nil, err
		}
		current.QuietHoursStart = patch.QuietHoursStart
	}
	if patch.QuietHoursEnd != nil {
		if err := validMinuteOfDay(*patch.QuietHoursEnd); err != nil {
			return nil, err
		}
		current.QuietHoursEnd = patch.QuietHoursEnd
	}
	if patch.Timezone != nil {
		current.Timezone = *patch.Timezone
	}

	if err := s.store.Save(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

func validMinuteOfDay(m int) error {
	if m < 0 || m > 23*60+59 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuietHours, m)
	}
	return nil
}
