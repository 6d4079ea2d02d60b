// Package email provides transactional email sending with a Postmark-backed
// production client, a filesystem DevSender for local development, and the
// HTML templates used for notification and digest mail.
package email
