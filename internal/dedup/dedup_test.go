package dedup

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestDeduplicator(useFuzzy bool) *Deduplicator {
	return NewDeduplicator(NewMatcher(DefaultFuzzyThreshold), useFuzzy, zerolog.Nop())
}

func TestDeduplicateEmptyBatch(t *testing.T) {
	t.Parallel()

	unique, removed := newTestDeduplicator(true).Deduplicate(nil)
	if len(unique) != 0 || removed != 0 {
		t.Fatalf("expected empty result, got %d unique %d removed", len(unique), removed)
	}
}

func TestDeduplicateExactDuplicates(t *testing.T) {
	t.Parallel()

	d := date(2025, time.July, 12)
	events := []Event{
		{Title: "Summer Festival", EventDate: d, DestinationCity: "Lisbon", Source: "eventbrite", URL: "https://a.example"},
		{Title: "SUMMER   festival", EventDate: d, DestinationCity: "lisbon", Source: "tourism_lisbon", URL: "https://b.example"},
	}

	unique, removed := newTestDeduplicator(true).Deduplicate(events)
	if len(unique) != 1 || removed != 1 {
		t.Fatalf("expected 1 unique / 1 removed, got %d / %d", len(unique), removed)
	}

	merged := unique[0]
	if merged.DuplicateCount != 2 {
		t.Fatalf("unexpected duplicate count: %d", merged.DuplicateCount)
	}
	if len(merged.Sources) != 2 {
		t.Fatalf("expected both sources, got %v", merged.Sources)
	}
	if len(merged.URLs) != 2 {
		t.Fatalf("expected both urls, got %v", merged.URLs)
	}
	if merged.DeduplicationHash == "" {
		t.Fatalf("merged record must carry its identity hash")
	}
}

func TestDeduplicateFuzzyMergesNearDuplicates(t *testing.T) {
	t.Parallel()

	d := date(2025, time.July, 12)
	events := []Event{
		{Title: "Lisbon Jazz Festival 2025", EventDate: d, DestinationCity: "Lisbon", Source: "eventbrite"},
		{Title: "Lisbon Jazz Festival", EventDate: d, DestinationCity: "Lisbon", Source: "tourism_lisbon"},
	}

	unique, removed := newTestDeduplicator(true).Deduplicate(events)
	if len(unique) != 1 || removed != 1 {
		t.Fatalf("expected fuzzy merge, got %d unique / %d removed", len(unique), removed)
	}
}

func TestDeduplicateFuzzyMergedRecordKeepsRepresentativeHash(t *testing.T) {
	t.Parallel()

	d := date(2025, time.July, 12)
	events := []Event{
		{Title: "Lisbon Jazz Festival 2025", EventDate: d, DestinationCity: "Lisbon", Source: "eventbrite"},
		{Title: "Lisbon Jazz Festival", EventDate: d, DestinationCity: "Lisbon", Source: "tourism_lisbon", Description: "Three days of open air jazz at the waterfront, with food stalls."},
	}

	unique, _ := newTestDeduplicator(true).Deduplicate(events)
	if len(unique) != 1 {
		t.Fatalf("expected fuzzy merge, got %d unique", len(unique))
	}

	merged := unique[0]
	if merged.Title != "Lisbon Jazz Festival" {
		t.Fatalf("expected the richer record as representative, got %q", merged.Title)
	}
	want := GenerateHash(merged.Title, merged.EventDate, merged.DestinationCity, merged.Venue)
	if merged.DeduplicationHash != want {
		t.Fatalf("merged record's hash must match its own identity: got %s, want %s", merged.DeduplicationHash, want)
	}
}

func TestDeduplicateFuzzyDisabled(t *testing.T) {
	t.Parallel()

	d := date(2025, time.July, 12)
	events := []Event{
		{Title: "Lisbon Jazz Festival 2025", EventDate: d, DestinationCity: "Lisbon", Source: "eventbrite"},
		{Title: "Lisbon Jazz Festival", EventDate: d, DestinationCity: "Lisbon", Source: "tourism_lisbon"},
	}

	unique, removed := newTestDeduplicator(false).Deduplicate(events)
	if len(unique) != 2 || removed != 0 {
		t.Fatalf("fuzzy disabled must only merge exact hashes, got %d unique / %d removed", len(unique), removed)
	}
}

func TestDeduplicateHardGates(t *testing.T) {
	t.Parallel()

	events := []Event{
		{Title: "Lisbon Jazz Festival", EventDate: date(2025, time.July, 12), DestinationCity: "Lisbon", Source: "a"},
		{Title: "Lisbon Jazz Festival", EventDate: date(2025, time.July, 13), DestinationCity: "Lisbon", Source: "b"},
		{Title: "Lisbon Jazz Festival", EventDate: date(2025, time.July, 12), DestinationCity: "Porto", Source: "c"},
	}

	unique, removed := newTestDeduplicator(true).Deduplicate(events)
	if len(unique) != 3 || removed != 0 {
		t.Fatalf("date/city gates must prevent merging, got %d unique / %d removed", len(unique), removed)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	t.Parallel()

	d := date(2025, time.July, 12)
	events := []Event{
		{Title: "Lisbon Jazz Festival 2025", EventDate: d, DestinationCity: "Lisbon", Source: "a"},
		{Title: "Lisbon Jazz Festival", EventDate: d, DestinationCity: "Lisbon", Source: "b"},
		{Title: "Wine Tasting Evening", EventDate: d, DestinationCity: "Lisbon", Source: "a"},
	}

	deduper := newTestDeduplicator(true)
	once, _ := deduper.Deduplicate(events)
	twice, removed := deduper.Deduplicate(once)
	if removed != 0 {
		t.Fatalf("re-deduplicating clean output must remove nothing, removed %d", removed)
	}
	if len(twice) != len(once) {
		t.Fatalf("expected stable output size, got %d then %d", len(once), len(twice))
	}
}

func TestDeduplicateExtractsVenueBeforeHashing(t *testing.T) {
	t.Parallel()

	d := date(2025, time.July, 12)
	events := []Event{
		{Title: "Fado Night", EventDate: d, DestinationCity: "Lisbon", Source: "a", Description: "An evening at Casa do Fado, dinner included"},
	}

	unique, _ := newTestDeduplicator(true).Deduplicate(events)
	if unique[0].Venue != "Casa do Fado" {
		t.Fatalf("expected extracted venue on output, got %q", unique[0].Venue)
	}
	want := GenerateHash("Fado Night", d, "Lisbon", "Casa do Fado")
	if unique[0].DeduplicationHash != want {
		t.Fatalf("hash must include the extracted venue")
	}

	// Caller-owned input is never mutated.
	if events[0].Venue != "" || events[0].DeduplicationHash != "" {
		t.Fatalf("input slice was mutated: %+v", events[0])
	}
}

func TestDeduplicatePreservesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	d := date(2025, time.July, 12)
	events := []Event{
		{Title: "Alpha Night Market", EventDate: d, DestinationCity: "Lisbon", Source: "a"},
		{Title: "Chamber Orchestra Gala", EventDate: d, DestinationCity: "Lisbon", Source: "b"},
		{Title: "Alpha Night Market", EventDate: d, DestinationCity: "Lisbon", Source: "c"},
	}

	unique, _ := newTestDeduplicator(true).Deduplicate(events)
	if len(unique) != 2 {
		t.Fatalf("expected 2 unique events, got %d", len(unique))
	}
	if unique[0].Title != "Alpha Night Market" || unique[1].Title != "Chamber Orchestra Gala" {
		t.Fatalf("batch order not preserved: %q, %q", unique[0].Title, unique[1].Title)
	}
}
