package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the business event a notification was born from.
type Type string

const (
	TypeMissionCreated   Type = "MISSION_CREATED"
	TypeMissionUpdated   Type = "MISSION_UPDATED"
	TypeMissionAssigned  Type = "MISSION_ASSIGNED"
	TypeMissionCompleted Type = "MISSION_COMPLETED"
	TypeMissionReminder  Type = "MISSION_REMINDER"

	TypeObservationCreated  Type = "OBSERVATION_CREATED"
	TypeObservationUpdated  Type = "OBSERVATION_UPDATED"
	TypeObservationFeedback Type = "OBSERVATION_FEEDBACK"

	TypeApprovalRequired Type = "APPROVAL_REQUIRED"
	TypeApprovalGranted  Type = "APPROVAL_GRANTED"
	TypeApprovalRejected Type = "APPROVAL_REJECTED"

	TypeSystemAlert       Type = "SYSTEM_ALERT"
	TypeSystemMaintenance Type = "SYSTEM_MAINTENANCE"

	TypeUserRegistered  Type = "USER_REGISTERED"
	TypeUserRoleChanged Type = "USER_ROLE_CHANGED"
	TypePasswordChanged Type = "PASSWORD_CHANGED"

	TypeAnnouncement       Type = "ANNOUNCEMENT"
	TypeAnnouncementUrgent Type = "ANNOUNCEMENT_URGENT"
)

// Category groups notification types for filtering and preference matching.
type Category string

const (
	CategoryMission      Category = "mission"
	CategoryObservation  Category = "observation"
	CategoryApproval     Category = "approval"
	CategorySystem       Category = "system"
	CategoryUser         Category = "user"
	CategoryAnnouncement Category = "announcement"
)

// typeCategories is the fixed type-to-category lookup table. Category is
// always derived from it, never set independently.
var typeCategories = map[Type]Category{
	TypeMissionCreated:      CategoryMission,
	TypeMissionUpdated:      CategoryMission,
	TypeMissionAssigned:     CategoryMission,
	TypeMissionCompleted:    CategoryMission,
	TypeMissionReminder:     CategoryMission,
	TypeObservationCreated:  CategoryObservation,
	TypeObservationUpdated:  CategoryObservation,
	TypeObservationFeedback: CategoryObservation,
	TypeApprovalRequired:    CategoryApproval,
	TypeApprovalGranted:     CategoryApproval,
	TypeApprovalRejected:    CategoryApproval,
	TypeSystemAlert:         CategorySystem,
	TypeSystemMaintenance:   CategorySystem,
	TypeUserRegistered:      CategoryUser,
	TypeUserRoleChanged:     CategoryUser,
	TypePasswordChanged:     CategoryUser,
	TypeAnnouncement:        CategoryAnnouncement,
	TypeAnnouncementUrgent:  CategoryAnnouncement,
}

// CategoryOf returns the category for a notification type.
// Unknown types fall back to CategorySystem.
func CategoryOf(t Type) Category {
	if c, ok := typeCategories[t]; ok {
		return c
	}
	return CategorySystem
}

// Valid reports whether t is one of the known notification types.
func (t Type) Valid() bool {
	_, ok := typeCategories[t]
	return ok
}

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"

	// PriorityDefault is applied when a send request carries no priority.
	PriorityDefault = PriorityMedium
)

// Valid checks if the priority is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Action represents a call-to-action button attached to a notification.
type Action struct {
	Label   string `json:"label"`
	URL     string `json:"url"`
	Primary bool   `json:"primary,omitempty"`
}

// DataKeyDigestSent marks a notification as already included in a digest
// email. It lives in the opaque Data payload so storage backends need no
// extra column.
const DataKeyDigestSent = "digestSent"

// Notification is one delivery-target-specific record. Rows are never shared
// between recipients; fan-out creates one per resolved user.
type Notification struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	RecipientID string         `json:"recipient_id" gorm:"index"`
	Type        Type           `json:"type"`
	Category    Category       `json:"category"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Priority    Priority       `json:"priority"`
	Data        map[string]any `json:"data,omitempty" gorm:"type:jsonb;serializer:json"`
	Actions     []Action       `json:"actions,omitempty" gorm:"type:jsonb;serializer:json"`
	Read        bool           `json:"read"`
	ReadAt      *time.Time     `json:"read_at,omitempty"`
	GroupID     string         `json:"group_id,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// New builds a notification for a recipient with derived category, default
// priority and a fresh id.
func New(recipientID string, t Type, title, message string) Notification {
	now := time.Now()
	return Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Type:        t,
		Category:    CategoryOf(t),
		Title:       title,
		Message:     message,
		Priority:    PriorityDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsExpired returns true if the notification is past its expiry.
func (n *Notification) IsExpired() bool {
	return n.ExpiresAtBefore(time.Now())
}

// ExpiresAtBefore reports whether the notification expires strictly before t.
func (n *Notification) ExpiresAtBefore(t time.Time) bool {
	if n.ExpiresAt == nil {
		return false
	}
	return n.ExpiresAt.Before(t)
}

// MarkAsRead sets the read flag and timestamp together, preserving the
// read ⇔ read_at invariant.
func (n *Notification) MarkAsRead(at time.Time) {
	n.Read = true
	n.ReadAt = &at
	n.UpdatedAt = at
}

// DigestSent reports whether the notification has already been included in a
// digest email.
func (n *Notification) DigestSent() bool {
	if n.Data == nil {
		return false
	}
	sent, _ := n.Data[DataKeyDigestSent].(bool)
	return sent
}

// MarkDigestSent records the digest inclusion marker in the opaque payload.
func (n *Notification) MarkDigestSent(at time.Time) {
	if n.Data == nil {
		n.Data = make(map[string]any, 1)
	}
	n.Data[DataKeyDigestSent] = true
	n.UpdatedAt = at
}
