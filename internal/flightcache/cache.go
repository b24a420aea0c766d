package flightcache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fernweh.fit/scout/internal/globaltime"
	"fernweh.fit/scout/internal/monitoring"
)

const (
	// DefaultTTL is how long a flight hash stays cached before the offer
	// is considered worth re-processing.
	DefaultTTL = time.Hour

	// DefaultKeyPrefix scopes every cache key so administrative scans
	// never touch unrelated keys.
	DefaultKeyPrefix = "flight:"
)

// Cache is a Redis-backed existence cache over flight fingerprints. It is an
// advisory optimization only: every operation fails open, so an unreachable
// Redis degrades to "nothing has been seen" and downstream processing stays
// correct, just slower. No mutual exclusion is provided between an existence
// check and a later write; two concurrent callers may both observe a miss
// and both process the same flight.
type Cache struct {
	client    redis.Cmdable
	ttl       time.Duration
	keyPrefix string
	logger    zerolog.Logger
	metrics   *monitoring.Metrics
}

// Stats describes the cache's administrative state.
type Stats struct {
	TotalKeys  int64  `json:"total_keys"`
	KeyPrefix  string `json:"key_prefix"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

// New builds a Cache. Non-positive ttl and blank keyPrefix fall back to the
// documented defaults; metrics may be nil.
func New(client redis.Cmdable, ttl time.Duration, keyPrefix string, logger zerolog.Logger, metrics *monitoring.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Cache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    logger,
		metrics:   metrics,
	}
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) KeyPrefix() string {
	return c.keyPrefix
}

func (c *Cache) key(flight Flight) string {
	return c.keyPrefix + HashFlight(flight)
}

// IsFlightCached reports whether the flight has been seen within the TTL
// window. Redis errors report false (fail open).
func (c *Cache) IsFlightCached(ctx context.Context, flight Flight) bool {
	exists, err := c.client.Exists(ctx, c.key(flight)).Result()
	if err != nil {
		c.metrics.FlightCacheError()
		c.logger.Warn().Err(err).Msg("flight cache existence check failed")
		return false
	}
	if exists > 0 {
		c.metrics.FlightCacheHit()
		return true
	}
	c.metrics.FlightCacheMiss()
	return false
}

// CacheFlight marks the flight as seen for the TTL window. Returns false on
// error instead of propagating it.
func (c *Cache) CacheFlight(ctx context.Context, flight Flight) bool {
	timestamp := globaltime.UTC().Format(time.RFC3339)
	if err := c.client.SetEx(ctx, c.key(flight), timestamp, c.ttl).Err(); err != nil {
		c.metrics.FlightCacheError()
		c.logger.Warn().Err(err).Msg("flight cache write failed")
		return false
	}
	return true
}

// CacheFlights pipelines the writes for a whole batch and returns how many
// flights were cached. A failed pipeline caches nothing but still returns
// normally.
func (c *Cache) CacheFlights(ctx context.Context, flights []Flight) int {
	if len(flights) == 0 {
		return 0
	}

	timestamp := globaltime.UTC().Format(time.RFC3339)
	pipe := c.client.Pipeline()
	for _, flight := range flights {
		pipe.SetEx(ctx, c.key(flight), timestamp, c.ttl)
	}

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		c.metrics.FlightCacheError()
		c.logger.Warn().Err(err).Int("batch", len(flights)).Msg("flight cache batch write failed")
		return 0
	}

	cached := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			cached++
		}
	}

	c.logger.Info().Int("cached", cached).Int("batch", len(flights)).Msg("cached flight batch")
	return cached
}

// FilterUncached returns the subset of flights absent from the cache,
// pipelining the existence checks so a batch costs one network round-trip.
// On any error the full input is returned unchanged (fail open).
func (c *Cache) FilterUncached(ctx context.Context, flights []Flight) []Flight {
	if len(flights) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	checks := make([]*redis.IntCmd, len(flights))
	for i, flight := range flights {
		checks[i] = pipe.Exists(ctx, c.key(flight))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.metrics.FlightCacheError()
		c.logger.Warn().Err(err).Int("batch", len(flights)).Msg("flight cache batch check failed; treating all as unseen")
		return flights
	}

	uncached := make([]Flight, 0, len(flights))
	for i, check := range checks {
		exists, err := check.Result()
		if err != nil {
			c.metrics.FlightCacheError()
			uncached = append(uncached, flights[i])
			continue
		}
		if exists > 0 {
			c.metrics.FlightCacheHit()
			continue
		}
		c.metrics.FlightCacheMiss()
		uncached = append(uncached, flights[i])
	}

	c.logger.Info().
		Int("batch", len(flights)).
		Int("uncached", len(uncached)).
		Msg("filtered flight batch against cache")
	return uncached
}

// ClearCache deletes every key under the cache's prefix and returns the
// number of keys removed.
func (c *Cache) ClearCache(ctx context.Context) int64 {
	var deleted int64
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		removed, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			c.metrics.FlightCacheError()
			c.logger.Warn().Err(err).Str("key", iter.Val()).Msg("flight cache delete failed")
			continue
		}
		deleted += removed
	}
	if err := iter.Err(); err != nil {
		c.metrics.FlightCacheError()
		c.logger.Warn().Err(err).Msg("flight cache clear scan failed")
	}

	c.logger.Info().Int64("deleted", deleted).Msg("cleared flight cache")
	return deleted
}

// Stats counts the keys under the cache's prefix. Scan errors report
// whatever was counted so far.
func (c *Cache) Stats(ctx context.Context) Stats {
	stats := Stats{
		KeyPrefix:  c.keyPrefix,
		TTLSeconds: int64(c.ttl / time.Second),
	}

	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		stats.TotalKeys++
	}
	if err := iter.Err(); err != nil {
		c.metrics.FlightCacheError()
		c.logger.Warn().Err(err).Msg("flight cache stats scan failed")
	}
	return stats
}
