package notification

// Recipient is the authenticated user identity the pipeline consumes.
// It carries only what delivery needs: contact points, timezone and roles.
// The owning application provides these through a directory lookup.
type Recipient struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Timezone string   `json:"timezone,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}
