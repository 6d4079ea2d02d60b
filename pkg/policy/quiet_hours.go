package policy

import "time"

// InQuietHours reports whether the minute-of-day of now falls inside the
// quiet window [start, end]. A window whose start is after its end wraps
// midnight. Either bound unset means quiet hours are off.
func InQuietHours(start, end *int, now time.Time) bool {
	if start == nil || end == nil {
		return false
	}

	minute := now.Hour()*60 + now.Minute()

	if *start <= *end {
		return minute >= *start && minute <= *end
	}
	// Wraps midnight, e.g. 22:00 -> 06:00.
	return minute >= *start || minute <= *end
}
