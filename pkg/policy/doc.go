// Package policy evaluates per-user delivery rules for a single
// notification: quiet-hour suppression, channel opt-in by type, and email
// frequency gating.
//
// The engine owns no persistence. It reads preferences through a narrow
// PreferenceGetter interface and fires the injected channels; each channel
// send is isolated so one failing transport never blocks the others.
//
// Usage:
//
//	engine := policy.NewEngine(prefSvc, pushCh, emailCh, smsCh,
//		policy.WithLogger(log),
//	)
//	outcomes, err := engine.Deliver(ctx, n, rcpt)
//
// Quiet hours are minute-of-day bounds evaluated in the recipient's
// timezone and may wrap midnight (22:00-06:00 suppresses 23:30 and 05:00
// but not 10:00). While quiet hours are active every channel is silenced;
// users on a daily or weekly email frequency still receive those items in
// the next digest sweep.
package policy
