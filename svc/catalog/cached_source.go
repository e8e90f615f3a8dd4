package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKey is where the serialized catalog lives in Redis.
const cacheKey = "catalog:plans"

// cachedSource is a read-through Redis cache in front of another Source.
// The catalog is read on nearly every entitlement decision but changes
// rarely, so a short TTL keeps instances consistent without hitting the
// backing source on the hot path.
type cachedSource struct {
	inner  Source
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
}

// NewCachedSource wraps inner with a Redis read-through cache.
// Cache failures degrade to the inner source; they are logged, never fatal.
func NewCachedSource(inner Source, client redis.UniversalClient, ttl time.Duration, log *slog.Logger) Source {
	if inner == nil {
		panic("catalog: inner Source is required")
	}
	if client == nil {
		panic("catalog: redis client is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &cachedSource{inner: inner, client: client, ttl: ttl, log: log}
}

func (s *cachedSource) Load(ctx context.Context) ([]Plan, error) {
	if raw, err := s.client.Get(ctx, cacheKey).Bytes(); err == nil {
		var plans []Plan
		if err := json.Unmarshal(raw, &plans); err == nil {
			return plans, nil
		}
		// Corrupt cache entry: fall through to the inner source and rewrite.
		s.log.WarnContext(ctx, "discarding unreadable catalog cache entry")
	}

	plans, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(plans); err == nil {
		if err := s.client.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
			s.log.WarnContext(ctx, "failed to cache plan catalog", "error", err)
		}
	}

	return plans, nil
}
