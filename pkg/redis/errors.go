package redis

import "errors"

var (
	// ErrFailedToParseRedisConnString reports a malformed REDIS_URL.
	ErrFailedToParseRedisConnString = errors.New("redis: cannot parse connection URL")
	// ErrRedisNotReady reports that the server did not answer a ping
	// within the connect budget.
	ErrRedisNotReady = errors.New("redis: server not ready")
	// ErrHealthcheckFailed reports a failed readiness ping.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
