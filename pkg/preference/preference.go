package preference

import (
	"time"

	"github.com/edukhmer/notifykit/pkg/notification"
)

// Frequency controls how email notifications are batched.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
)

// Valid checks if the frequency is one of the known values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyImmediate, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// EmailSettings controls the email channel for one user.
type EmailSettings struct {
	Enabled   bool                `json:"enabled"`
	Frequency Frequency           `json:"frequency"`
	Types     []notification.Type `json:"types"`
}

// SMSSettings controls the SMS channel for one user.
type SMSSettings struct {
	Enabled bool                `json:"enabled"`
	Types   []notification.Type `json:"types"`
}

// InAppSettings controls in-app presentation.
type InAppSettings struct {
	Enabled bool `json:"enabled"`
	Sound   bool `json:"sound"`
	Desktop bool `json:"desktop"`
}

// Preferences is the per-user notification preference record. Exactly one
// exists per user; it is created lazily on first access.
type Preferences struct {
	UserID string        `json:"user_id" gorm:"primaryKey"`
	Email  EmailSettings `json:"email" gorm:"type:jsonb;serializer:json"`
	SMS    SMSSettings   `json:"sms" gorm:"type:jsonb;serializer:json"`
	InApp  InAppSettings `json:"in_app" gorm:"type:jsonb;serializer:json"`

	// Quiet hour bounds are minute-of-day values (0..1439) in the user's
	// timezone. A nil bound disables quiet hours.
	QuietHoursStart *int   `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *int   `json:"quiet_hours_end,omitempty"`
	Timezone        string `json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTimezone matches the platform's primary deployment locale.
const DefaultTimezone = "Asia/Phnom_Penh"

// Default returns the preference record created on first access: immediate
// email for the core event types, SMS off with a restricted opt-in set,
// in-app on with sound.
func Default(userID string) Preferences {
	now := time.Now()
	return Preferences{
		UserID: userID,
		Email: EmailSettings{
			Enabled:   true,
			Frequency: FrequencyImmediate,
			Types: []notification.Type{
				notification.TypeMissionCreated,
				notification.TypeObservationCreated,
				notification.TypeApprovalRequired,
				notification.TypeAnnouncement,
			},
		},
		SMS: SMSSettings{
			Enabled: false,
			Types: []notification.Type{
				notification.TypeApprovalRequired,
				notification.TypeSystemAlert,
			},
		},
		InApp: InAppSettings{
			Enabled: true,
			Sound:   true,
			Desktop: false,
		},
		Timezone:  DefaultTimezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EmailWants reports whether the email channel accepts the given type.
func (p *Preferences) EmailWants(t notification.Type) bool {
	if !p.Email.Enabled {
		return false
	}
	for _, want := range p.Email.Types {
		if want == t {
			return true
		}
	}
	return false
}

// SMSWants reports whether the SMS channel accepts the given type.
func (p *Preferences) SMSWants(t notification.Type) bool {
	if !p.SMS.Enabled {
		return false
	}
	for _, want := range p.SMS.Types {
		if want == t {
			return true
		}
	}
	return false
}

// Location resolves the user's timezone, falling back to the deployment
// default and finally UTC when the name cannot be loaded.
func (p *Preferences) Location() *time.Location {
	if p.Timezone != "" {
		if loc, err := time.LoadLocation(p.Timezone); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}
