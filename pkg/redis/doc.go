// Package redis wires the go-redis client used as a read-through cache in
// front of the plan catalog. Connection establishment retries with a bounded
// timeout; a healthcheck closure is provided for readiness probes.
package redis
