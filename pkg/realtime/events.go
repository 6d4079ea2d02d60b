package realtime

// Event names carried by the real-time contract. Clients patch their local
// state from the payload: the full notification on create, just ids on
// read/delete.
const (
	EventNotification         = "notification"
	EventNotificationRead     = "notification-read"
	EventNotificationsRead    = "notifications-read"
	EventAllNotificationsRead = "all-notifications-read"
	EventNotificationDeleted  = "notification-deleted"
)

// Message is one event pushed to a connection.
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}
