package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// NotificationID records the notification identifier under the key
// "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// NotificationType records the notification type under the key "type".
func NotificationType(t string) slog.Attr {
	return slog.String("type", t)
}

// Channel records the delivery channel name under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// Job records the batch job name under the key "job".
func Job(name string) slog.Attr {
	return slog.String("job", name)
}

// Count records a generic count under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// ConnID records the realtime connection identifier under the key "conn_id".
func ConnID(id string) slog.Attr {
	return slog.String("conn_id", id)
}

// Event records the realtime event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
