// Package api is the mountable HTTP surface of the entitlement engine:
// plan catalog reads, subscription lifecycle, usage and entitlement
// checks, upgrade recommendations, checkout and invoice retrieval.
//
// The router is transport glue only. Domain errors map onto statuses in
// one place (respondError) and everything unclassified is logged and
// returned as a generic 500.
package api
