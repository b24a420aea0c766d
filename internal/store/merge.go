package store

import (
	"fernweh.fit/scout/internal/db"
	"fernweh.fit/scout/internal/dedup"
)

// updatePlan says which stored fields an incoming record may touch.
type updatePlan struct {
	ReplaceDescription bool
	FillVenue          bool
	FillURL            bool
	ReplacePriceRange  bool
}

// shouldUpdate reports whether an incoming record carries anything worth
// writing over the stored row. A record from a different source always
// refreshes the row; a record from the same source only does so when its
// description is strictly longer.
func shouldUpdate(stored db.StoredEvent, incoming dedup.Event) bool {
	if incoming.Source != stored.Source {
		return true
	}
	return len(incoming.Description) > len(deref(stored.Description))
}

// planUpdate keeps the richer value per field: descriptions are replaced
// only when strictly longer, venue and url only fill gaps, and a concrete
// price range replaces the "varies" placeholder.
func planUpdate(stored db.StoredEvent, incoming dedup.Event) updatePlan {
	return updatePlan{
		ReplaceDescription: len(incoming.Description) > len(deref(stored.Description)),
		FillVenue:          deref(stored.Venue) == "" && incoming.Venue != "",
		FillURL:            deref(stored.URL) == "" && incoming.URL != "",
		ReplacePriceRange: deref(stored.PriceRange) == dedup.PriceRangeVaries &&
			incoming.PriceRange != "" && incoming.PriceRange != dedup.PriceRangeVaries,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
