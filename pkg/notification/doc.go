// Package notification defines the core domain model of the delivery
// pipeline: typed notifications with derived categories, per-recipient rows
// and the Storage interface the rest of the system persists through.
//
// Two storage implementations ship with the package: MemoryStorage for
// development and tests, and GormStorage backed by PostgreSQL for
// production. Both keep expired rows out of every read path; only
// DeleteExpired (driven by the expiry reaper job) sees them.
//
// # Categories
//
// Every Type maps to exactly one Category through a fixed lookup table.
// Category is derived, never stored independently:
//
//	notification.CategoryOf(notification.TypeMissionCreated) // CategoryMission
//
// # Read state
//
// Read and ReadAt are set together through MarkAsRead, so the invariant
// read ⇔ read_at != nil holds at all times.
package notification
