// Package entitlement answers "what is this business allowed to do".
//
// The Evaluator resolves a business's effective plan, falling back to the
// catalog's default tier when no active subscription exists, and gates
// actions against it: metered actions (reply, dispute) go through the
// subscription usage counters, feature actions read plan flags. The
// Advisor builds the upgrade comparison shown when a gate denies.
//
// Both types are stateless; they compose the catalog and subscription
// services and can be shared freely across requests.
package entitlement
