// Package preference stores per-user delivery preferences: channel
// enablement, type subscriptions, email frequency, quiet hours and timezone.
//
// Records are created lazily with Default on first access; GetOrCreate is
// atomic so concurrent first access never produces duplicates. Updates use
// merge semantics: the channel settings blocks are replaced wholesale when
// provided, everything else is set field-by-field, and absent fields retain
// their prior values.
package preference
