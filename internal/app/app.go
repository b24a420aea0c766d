// Package app implements the scout CLI commands.
package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "dedup":
		return runDedup(args[1:])
	case "save":
		return runSave(args[1:])
	case "flights":
		return runFlights(args[1:])
	case "cache":
		return runCache(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "scout CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  scout <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health   Verify database and Redis connectivity")
	fmt.Fprintln(os.Stderr, "  dedup    Deduplicate a scraped event batch without persisting")
	fmt.Fprintln(os.Stderr, "  save     Deduplicate and persist a scraped event batch")
	fmt.Fprintln(os.Stderr, "  flights  Filter a flight batch against the existence cache and cache it")
	fmt.Fprintln(os.Stderr, "  cache    Inspect or clear the flight existence cache")
	fmt.Fprintln(os.Stderr, "  serve    Start the ops API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"scout <command> -h\" for command-specific flags.")
}
