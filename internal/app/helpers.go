package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fernweh.fit/scout/internal/config"
	"fernweh.fit/scout/internal/dedup"
	"fernweh.fit/scout/internal/flightcache"
	"fernweh.fit/scout/internal/logging"
	"fernweh.fit/scout/internal/monitoring"
)

// loadJSONInput reads JSON either inline or from a file; the file wins when
// both are set.
func loadJSONInput(inlineValue, filePath, label string) (json.RawMessage, error) {
	if path := strings.TrimSpace(filePath); path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s file %q: %w", label, path, err)
		}
		trimmed := strings.TrimSpace(string(payload))
		if trimmed == "" {
			return nil, fmt.Errorf("%s file %q is empty", label, path)
		}
		return json.RawMessage(trimmed), nil
	}

	trimmed := strings.TrimSpace(inlineValue)
	if trimmed == "" {
		return nil, fmt.Errorf("%s is required", label)
	}
	return json.RawMessage(trimmed), nil
}

func setupLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logging.New(cfg.Environment, cfg.LogLevel)
}

func newDeduplicator(cfg *config.Config, logger zerolog.Logger) *dedup.Deduplicator {
	return dedup.NewDeduplicator(dedup.NewMatcher(cfg.DedupFuzzyThreshold), cfg.DedupUseFuzzy, logger)
}

func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func newFlightCache(cfg *config.Config, client redis.Cmdable, logger zerolog.Logger, metrics *monitoring.Metrics) *flightcache.Cache {
	return flightcache.New(client, cfg.FlightCacheTTLDuration(), cfg.FlightCacheKeyPrefix, logger, metrics)
}

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
