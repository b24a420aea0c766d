package dedup

import (
	"strings"

	"github.com/rs/zerolog"
)

// Deduplicator runs the two-phase batch pipeline: exact identity-hash
// grouping first, then an optional fuzzy pass across the hash-merged
// records. The pipeline is pure in-memory computation over its input slice;
// callers may deduplicate separate batches concurrently.
type Deduplicator struct {
	matcher  Matcher
	useFuzzy bool
	logger   zerolog.Logger
}

func NewDeduplicator(matcher Matcher, useFuzzy bool, logger zerolog.Logger) *Deduplicator {
	return &Deduplicator{
		matcher:  matcher,
		useFuzzy: useFuzzy,
		logger:   logger,
	}
}

// Deduplicate returns the unique records of a batch plus the number of
// duplicates removed. Input records are never mutated; enriched copies flow
// through instead. Every returned record carries a non-empty
// DeduplicationHash.
func (d *Deduplicator) Deduplicate(events []Event) ([]Event, int) {
	if len(events) == 0 {
		return nil, 0
	}

	hashUnique := d.groupByHash(events)

	unique := hashUnique
	if d.useFuzzy {
		unique = d.fuzzyPass(hashUnique)
	}

	removed := len(events) - len(unique)
	d.logger.Info().
		Int("input", len(events)).
		Int("unique", len(unique)).
		Int("removed", removed).
		Bool("fuzzy", d.useFuzzy).
		Msg("batch deduplicated")

	return unique, removed
}

// groupByHash enriches each record (venue extraction, identity hash) and
// collapses exact hash collisions, preserving first-seen batch order.
func (d *Deduplicator) groupByHash(events []Event) []Event {
	order := make([]string, 0, len(events))
	groups := make(map[string][]Event, len(events))

	for _, event := range events {
		enriched := event
		if strings.TrimSpace(enriched.Venue) == "" && enriched.Description != "" {
			if venue, ok := ExtractVenue(enriched.Description); ok {
				enriched.Venue = venue
			}
		}
		enriched.DeduplicationHash = GenerateHash(enriched.Title, enriched.EventDate, enriched.DestinationCity, enriched.Venue)

		if _, seen := groups[enriched.DeduplicationHash]; !seen {
			order = append(order, enriched.DeduplicationHash)
		}
		groups[enriched.DeduplicationHash] = append(groups[enriched.DeduplicationHash], enriched)
	}

	unique := make([]Event, 0, len(order))
	for _, hash := range order {
		group := groups[hash]
		if len(group) == 1 {
			unique = append(unique, group[0])
			continue
		}
		merged := MergeGroup(group)
		merged.DeduplicationHash = hash
		unique = append(unique, merged)
	}
	return unique
}

// fuzzyPass scans the hash-deduplicated records pairwise and merges groups
// that pass the matcher's date/city/similarity test. Quadratic in the number
// of hash groups, which is fine at scraper-batch size.
func (d *Deduplicator) fuzzyPass(events []Event) []Event {
	if len(events) <= 1 {
		return events
	}

	consumed := make([]bool, len(events))
	unique := make([]Event, 0, len(events))

	for i, event := range events {
		if consumed[i] {
			continue
		}

		group := []Event{event}
		for j := i + 1; j < len(events); j++ {
			if consumed[j] {
				continue
			}
			if d.matcher.AreSimilar(event, events[j]) {
				group = append(group, events[j])
				consumed[j] = true
			}
		}

		if len(group) == 1 {
			unique = append(unique, event)
			continue
		}

		// MergeGroup returns the most complete member, so the merged record
		// keeps the hash matching its own title/venue/date/city identity.
		merged := MergeGroup(group)
		unique = append(unique, merged)
		d.logger.Debug().
			Int("group_size", len(group)).
			Str("title", event.Title).
			Msg("fuzzy-matched duplicate group")
	}

	return unique
}
