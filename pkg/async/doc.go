// Package async provides a small Future abstraction over goroutines.
//
// The checkout flow uses it for the post-invoice notification: the email is
// dispatched on a detached context so its failure can be logged without ever
// sharing a call stack (or an error path) with the checkout transaction.
package async
