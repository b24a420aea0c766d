package store

import (
	"testing"
	"time"

	"fernweh.fit/scout/internal/db"
	"fernweh.fit/scout/internal/dedup"
)

func strPtr(s string) *string {
	return &s
}

func storedFixture() db.StoredEvent {
	return db.StoredEvent{
		EventID:           7,
		DestinationCity:   "Lisbon",
		Title:             "Jazz Festival",
		EventDate:         time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
		Category:          "music",
		Description:       strPtr("Open air jazz."),
		PriceRange:        strPtr("varies"),
		Source:            "timeout",
		DeduplicationHash: "abc",
	}
}

func TestShouldUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming dedup.Event
		want     bool
	}{
		{
			name:     "different source",
			incoming: dedup.Event{Source: "eventbrite", Description: "x"},
			want:     true,
		},
		{
			name:     "same source longer description",
			incoming: dedup.Event{Source: "timeout", Description: "Open air jazz with three stages."},
			want:     true,
		},
		{
			name:     "same source shorter description",
			incoming: dedup.Event{Source: "timeout", Description: "Jazz."},
			want:     false,
		},
		{
			name:     "same source equal description",
			incoming: dedup.Event{Source: "timeout", Description: "Open air jazz."},
			want:     false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := shouldUpdate(storedFixture(), tt.incoming); got != tt.want {
				t.Fatalf("shouldUpdate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanUpdate(t *testing.T) {
	t.Parallel()

	t.Run("fills missing venue and url", func(t *testing.T) {
		t.Parallel()
		plan := planUpdate(storedFixture(), dedup.Event{
			Source: "eventbrite",
			Venue:  "Parque Eduardo VII",
			URL:    "https://example.com/jazz",
		})
		if !plan.FillVenue {
			t.Fatal("expected venue to be filled")
		}
		if !plan.FillURL {
			t.Fatal("expected url to be filled")
		}
		if plan.ReplaceDescription {
			t.Fatal("empty incoming description must not replace stored one")
		}
	})

	t.Run("never overwrites existing venue", func(t *testing.T) {
		t.Parallel()
		stored := storedFixture()
		stored.Venue = strPtr("Altice Arena")
		plan := planUpdate(stored, dedup.Event{Venue: "Somewhere Else"})
		if plan.FillVenue {
			t.Fatal("stored venue must be kept")
		}
	})

	t.Run("replaces varies price range only", func(t *testing.T) {
		t.Parallel()
		plan := planUpdate(storedFixture(), dedup.Event{PriceRange: "€20-50"})
		if !plan.ReplacePriceRange {
			t.Fatal("concrete price range should replace the varies placeholder")
		}

		stored := storedFixture()
		stored.PriceRange = strPtr("<€20")
		plan = planUpdate(stored, dedup.Event{PriceRange: "€50+"})
		if plan.ReplacePriceRange {
			t.Fatal("concrete stored price range must be kept")
		}
	})

	t.Run("longer description replaces stored", func(t *testing.T) {
		t.Parallel()
		plan := planUpdate(storedFixture(), dedup.Event{
			Description: "Open air jazz festival with three stages and food stalls.",
		})
		if !plan.ReplaceDescription {
			t.Fatal("strictly longer description should replace stored one")
		}
	})
}
