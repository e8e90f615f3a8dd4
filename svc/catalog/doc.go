// Package catalog holds the plan catalog: immutable-per-version definitions
// of the Basic, Premium and Enterprise tiers with their prices, quotas and
// feature flags.
//
// The catalog is reference data. It is loaded once at service construction
// from a Source (in-memory, YAML file or PostgreSQL, optionally behind a
// Redis read-through cache) and validated: unknown tiers, negative prices and
// more than one active plan per tier are configuration errors that abort
// startup. Tier-based lookups rely on the one-active-plan-per-tier invariant,
// so it is enforced here at load time rather than assumed.
package catalog
