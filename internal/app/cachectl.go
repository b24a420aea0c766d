package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"fernweh.fit/scout/internal/cli"
	"fernweh.fit/scout/internal/config"
)

func runCache(args []string) int {
	if len(args) == 0 {
		printCacheUsage()
		return 2
	}

	action := strings.ToLower(strings.TrimSpace(args[0]))
	switch action {
	case "help", "-h", "--help":
		printCacheUsage()
		return 0
	case "stats", "clear":
		return runCacheAction(action, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown cache action: %s\n\n", args[0])
		printCacheUsage()
		return 2
	}
}

func printCacheUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  scout cache stats [flags]   Report flight cache key count, prefix and TTL")
	fmt.Fprintln(os.Stderr, "  scout cache clear [flags]   Delete all flight cache keys under the prefix")
}

func runCacheAction(action string, args []string) int {
	fs := flag.NewFlagSet("cache "+action, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")

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

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid Redis configuration: %v\n", err)
		return 1
	}
	defer redisClient.Close()

	cache := newFlightCache(cfg, redisClient, logger, nil)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch action {
	case "stats":
		stats := cache.Stats(ctx)
		fmt.Printf("total_keys=%d key_prefix=%s ttl_seconds=%d\n", stats.TotalKeys, stats.KeyPrefix, stats.TTLSeconds)
	case "clear":
		cleared := cache.ClearCache(ctx)
		fmt.Printf("cleared=%d\n", cleared)
	}
	return 0
}
