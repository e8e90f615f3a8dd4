// Package email provides the EmailSender interface used for checkout
// notifications, with a Postmark-backed implementation for production and a
// filesystem DevSender for local development.
package email
