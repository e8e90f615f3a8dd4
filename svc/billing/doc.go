// Package billing turns a plan choice into money movement: it computes
// invoice amounts, initiates payment with the external gateway and
// records the resulting invoice.
//
// The Calculator is pure integer arithmetic over basis points with a
// strict round-up policy. The CheckoutService orchestrates one attempt:
// the gateway call is the commit point, so a failed or timed-out
// initiation writes nothing, and a committed invoice survives whatever
// the best-effort notification email does afterwards.
package billing
