package db

import (
	"context"
	"fmt"
	"time"
)

// StoredEvent is the subset of an event row the persistence merge path and
// the read API need.
type StoredEvent struct {
	EventID           int64
	DestinationCity   string
	Title             string
	EventDate         time.Time
	Category          string
	Description       *string
	PriceRange        *string
	Venue             *string
	Source            string
	URL               *string
	DeduplicationHash string
	ScrapedAt         time.Time
}

const storedEventColumns = `
	event_id,
	destination_city,
	title,
	event_date,
	category,
	description,
	price_range,
	venue,
	source,
	url,
	deduplication_hash,
	scraped_at
`

func scanStoredEvent(row interface{ Scan(dest ...any) error }) (StoredEvent, error) {
	var event StoredEvent
	err := row.Scan(
		&event.EventID,
		&event.DestinationCity,
		&event.Title,
		&event.EventDate,
		&event.Category,
		&event.Description,
		&event.PriceRange,
		&event.Venue,
		&event.Source,
		&event.URL,
		&event.DeduplicationHash,
		&event.ScrapedAt,
	)
	return event, err
}

// FindEventByHashTx looks up the persisted event sharing the given identity
// hash, inside the caller's transaction. found is false when no row exists.
func FindEventByHashTx(ctx context.Context, tx Tx, hash string) (StoredEvent, bool, error) {
	q := `
SELECT` + storedEventColumns + `
FROM events
WHERE deduplication_hash = $1
ORDER BY event_id
LIMIT 1
`
	event, err := scanStoredEvent(tx.QueryRow(ctx, q, hash))
	if err != nil {
		if IsNoRows(err) {
			return StoredEvent{}, false, nil
		}
		return StoredEvent{}, false, fmt.Errorf("find event by hash: %w", err)
	}
	return event, true, nil
}

// EventsByCity returns upcoming stored events for one city, soonest first.
func (p *Pool) EventsByCity(ctx context.Context, city string, limit int) ([]StoredEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
SELECT` + storedEventColumns + `
FROM events
WHERE destination_city = $1
ORDER BY event_date ASC
LIMIT $2
`
	return p.queryStoredEvents(ctx, q, city, limit)
}

// EventsBySource returns stored events scraped from one source, soonest
// first.
func (p *Pool) EventsBySource(ctx context.Context, source string, limit int) ([]StoredEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
SELECT` + storedEventColumns + `
FROM events
WHERE source = $1
ORDER BY event_date ASC
LIMIT $2
`
	return p.queryStoredEvents(ctx, q, source, limit)
}

func (p *Pool) queryStoredEvents(ctx context.Context, q string, args ...any) ([]StoredEvent, error) {
	rows, err := p.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		event, err := scanStoredEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}
