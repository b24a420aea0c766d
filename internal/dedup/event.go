package dedup

import "time"

// Event is one candidate record scraped from a single source. Candidates
// arrive with no uniqueness guarantee; deduplication decides which of them
// describe the same real-world event before anything is persisted.
type Event struct {
	Title           string     `json:"title"`
	EventDate       time.Time  `json:"event_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	DestinationCity string     `json:"destination_city"`
	Venue           string     `json:"venue,omitempty"`
	Description     string     `json:"description,omitempty"`
	PriceRange      string     `json:"price_range,omitempty"`
	Category        string     `json:"category,omitempty"`
	Source          string     `json:"source"`
	URL             string     `json:"url,omitempty"`

	// DeduplicationHash is attached while a batch moves through the
	// pipeline; every deduplicated record carries a non-empty value.
	DeduplicationHash string `json:"deduplication_hash,omitempty"`

	// Provenance of a merged duplicate group, in first-seen order.
	Sources        []string `json:"sources,omitempty"`
	URLs           []string `json:"urls,omitempty"`
	DuplicateCount int      `json:"duplicate_count,omitempty"`
}

func sameDay(left, right time.Time) bool {
	ly, lm, ld := left.Date()
	ry, rm, rd := right.Date()
	return ly == ry && lm == rm && ld == rd
}
