// Package subscription manages a business's plan assignment and the usage
// counters that ride on it.
//
// The subscription record is the single source of truth for both lifecycle
// (active, suspended, cancelled, expired, pending_payment) and metering
// (monthly reply and dispute counters with a calendar-anchored reset).
// Counter updates go through an optimistic version guard so concurrent
// consumers of the last quota unit cannot both succeed; the service
// reloads and retries on conflict.
//
// A Sweeper runs alongside the service and expires subscriptions whose
// paid period has lapsed, so reads never have to repair lifecycle state.
package subscription
