package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"fernweh.fit/scout/internal/cli"
	"fernweh.fit/scout/internal/config"
	payloadschema "fernweh.fit/scout/schema"
)

func runDedup(args []string) int {
	fs := flag.NewFlagSet("dedup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	events := fs.String("events", "", "Scraped event batch JSON array")
	eventsFile := fs.String("events-file", "", "Path to event batch JSON file (overrides --events)")

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

	deduper := newDeduplicator(cfg, logger)
	deduplicated, removed := deduper.Deduplicate(batch)

	if err := printJSON(map[string]any{
		"events_in":          len(batch),
		"events_out":         len(deduplicated),
		"duplicates_removed": removed,
		"events":             deduplicated,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}
