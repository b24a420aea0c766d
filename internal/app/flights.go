package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"fernweh.fit/scout/internal/cli"
	"fernweh.fit/scout/internal/config"
	"fernweh.fit/scout/internal/flightcache"
)

func runFlights(args []string) int {
	fs := flag.NewFlagSet("flights", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	flights := fs.String("flights", "", "Flight batch JSON array")
	flightsFile := fs.String("flights-file", "", "Path to flight batch JSON file (overrides --flights)")
	cacheAfter := fs.Bool("cache", false, "Cache the uncached flights after filtering")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	payload, err := loadJSONInput(*flights, *flightsFile, "flights")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flights input: %v\n", err)
		return 2
	}

	var batch []flightcache.Flight
	if err := json.Unmarshal(payload, &batch); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flight batch: %v\n", err)
		return 2
	}

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid Redis configuration: %v\n", err)
		return 1
	}
	defer redisClient.Close()

	cache := newFlightCache(cfg, redisClient, logger, nil)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	uncached := cache.FilterUncached(ctx, batch)

	cached := 0
	if *cacheAfter && len(uncached) > 0 {
		cached = cache.CacheFlights(ctx, uncached)
	}

	if err := printJSON(map[string]any{
		"flights_in": len(batch),
		"uncached":   len(uncached),
		"cached":     cached,
		"flights":    uncached,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}
