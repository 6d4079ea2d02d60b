// Package jobs holds the periodic maintenance jobs run by the scheduler:
// the expiry reaper and the daily and weekly digest mailers.
//
// All jobs are idempotent. The reaper deletes already-invisible rows, and
// the digest mailers mark every included notification so a repeated run
// never re-sends it.
package jobs
