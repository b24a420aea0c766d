package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"fernweh.fit/scout/internal/cli"
	"fernweh.fit/scout/internal/config"
	"fernweh.fit/scout/internal/db"
	"fernweh.fit/scout/internal/monitoring"
	"fernweh.fit/scout/internal/store"
	payloadschema "fernweh.fit/scout/schema"
)

func runSave(args []string) int {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 60*time.Second, "Command timeout")
	events := fs.String("events", "", "Scraped event batch JSON array")
	eventsFile := fs.String("events-file", "", "Path to event batch JSON file (overrides --events)")
	source := fs.String("source", "", "Scrape run source label (defaults to mixed)")
	skipDedup := fs.Bool("skip-dedup", false, "Persist the batch without deduplicating first")

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

	payload, err := loadJSONInput(*events, *eventsFile, "events")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid events input: %v\n", err)
		return 2
	}

	items, err := payloadschema.ValidateEventBatch(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid event batch: %v\n", err)
		return 2
	}

	batch, err := payloadschema.ToEvents(items)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid event batch: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	metrics := monitoring.New()
	svc := store.NewService(pool, newDeduplicator(cfg, logger), logger, metrics)

	result, err := svc.SaveEvents(ctx, batch, store.SaveOptions{
		Deduplicate: !*skipDedup,
		Source:      *source,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
		return 1
	}

	fmt.Printf("run_uuid=%s events_in=%d duplicates_removed=%d inserted=%d updated=%d skipped=%d failed=%d\n",
		result.RunUUID, result.EventsIn, result.DuplicatesRemoved,
		result.Inserted, result.Updated, result.Skipped, result.Failed)
	return 0
}
