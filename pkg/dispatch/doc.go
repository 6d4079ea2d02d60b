// Package dispatch fans notifications out to resolved recipients and
// exposes the inbound API surface the application calls.
//
// The Dispatcher resolves a SendRequest's targeting (one user, a user list,
// or role holders) through the consumer-supplied Directory, deduplicates
// the result, and processes recipients concurrently: each gets its own
// stored row first, then policy-gated channel delivery. Recipients are
// isolated failure domains; the call only fails when persistence failed for
// every one of them.
//
// The Service wraps storage, preferences and the dispatcher for an already
// authorized caller, and mirrors every mutation to the user's live
// connections (notification-read, notifications-read, all-notifications-read,
// notification-deleted) so open tabs converge without polling.
package dispatch
