package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"SCOUT_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"SCOUT_DB_MAX_CONNS" default:"8"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	DedupFuzzyThreshold  float64 `envconfig:"DEDUP_FUZZY_THRESHOLD" default:"0.85"`
	DedupUseFuzzy        bool    `envconfig:"DEDUP_USE_FUZZY" default:"true"`
	FlightCacheTTL       int     `envconfig:"FLIGHT_CACHE_TTL_SECONDS" default:"3600"`
	FlightCacheKeyPrefix string  `envconfig:"FLIGHT_CACHE_KEY_PREFIX" default:"flight:"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("SCOUT_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("SCOUT_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("SCOUT_DB_MIN_CONNS (%d) cannot exceed SCOUT_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.RedisURL) == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.DedupFuzzyThreshold <= 0 || c.DedupFuzzyThreshold > 1 {
		return fmt.Errorf("DEDUP_FUZZY_THRESHOLD must be in (0, 1], got %v", c.DedupFuzzyThreshold)
	}
	if c.FlightCacheTTL < 1 {
		return fmt.Errorf("FLIGHT_CACHE_TTL_SECONDS must be >= 1")
	}
	if strings.TrimSpace(c.FlightCacheKeyPrefix) == "" {
		return fmt.Errorf("FLIGHT_CACHE_KEY_PREFIX is required")
	}
	return nil
}

func (c *Config) FlightCacheTTLDuration() time.Duration {
	if c == nil || c.FlightCacheTTL < 1 {
		return time.Hour
	}
	return time.Duration(c.FlightCacheTTL) * time.Second
}
