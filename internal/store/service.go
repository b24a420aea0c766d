// Package store persists deduplicated events, merging each incoming record
// with whatever earlier scrapes already wrote for the same identity hash.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fernweh.fit/scout/internal/db"
	"fernweh.fit/scout/internal/dedup"
	"fernweh.fit/scout/internal/globaltime"
	"fernweh.fit/scout/internal/langdetect"
	"fernweh.fit/scout/internal/monitoring"
)

// Service writes event batches to the database.
type Service struct {
	pool    *db.Pool
	logger  zerolog.Logger
	metrics *monitoring.Metrics
	deduper *dedup.Deduplicator
}

func NewService(pool *db.Pool, deduper *dedup.Deduplicator, logger zerolog.Logger, metrics *monitoring.Metrics) *Service {
	return &Service{
		pool:    pool,
		logger:  logger.With().Str("component", "store").Logger(),
		metrics: metrics,
		deduper: deduper,
	}
}

// SaveOptions controls one SaveEvents call.
type SaveOptions struct {
	// Deduplicate runs the batch through the deduplicator before writing.
	Deduplicate bool
	// Source labels the scrape run ledger row. Defaults to "mixed".
	Source string
}

// SaveResult reports what one batch write did.
type SaveResult struct {
	RunUUID           string `json:"run_uuid"`
	EventsIn          int    `json:"events_in"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
	Inserted          int    `json:"inserted"`
	Updated           int    `json:"updated"`
	Skipped           int    `json:"skipped"`
	Failed            int    `json:"failed"`
}

// SaveEvents writes a batch inside a single transaction. Individual records
// that fail are logged, counted, and skipped so one bad record does not sink
// the batch; only a failed commit aborts the whole write.
func (s *Service) SaveEvents(ctx context.Context, events []dedup.Event, opts SaveOptions) (SaveResult, error) {
	result := SaveResult{
		RunUUID:  uuid.NewString(),
		EventsIn: len(events),
	}
	source := opts.Source
	if source == "" {
		source = "mixed"
	}

	if opts.Deduplicate && s.deduper != nil {
		events, result.DuplicatesRemoved = s.deduper.Deduplicate(events)
		s.metrics.ObserveDeduplication(result.EventsIn, result.DuplicatesRemoved)
	}

	// The ledger is advisory: a run row that cannot be opened (or closed, see
	// finishRun) never blocks the actual save.
	if err := s.beginRun(ctx, result.RunUUID, source, result.EventsIn); err != nil {
		s.logger.Warn().Err(err).Str("run_uuid", result.RunUUID).Msg("Failed to open scrape run")
	}

	tx, err := s.pool.BeginTx(ctx, db.TxOptions{})
	if err != nil {
		s.finishRun(ctx, result, "failed", err.Error())
		return result, fmt.Errorf("begin save transaction: %w", err)
	}

	s.saveBatch(ctx, tx, events, &result)

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		s.finishRun(ctx, result, "failed", err.Error())
		return result, fmt.Errorf("commit save transaction: %w", err)
	}

	s.finishRun(ctx, result, "completed", "")
	s.logger.Info().
		Str("run_uuid", result.RunUUID).
		Int("events_in", result.EventsIn).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Saved event batch")
	return result, nil
}

type saveOutcome string

const (
	outcomeInserted saveOutcome = "inserted"
	outcomeUpdated  saveOutcome = "updated"
	outcomeSkipped  saveOutcome = "skipped"
)

// saveBatch writes each record under its own savepoint. Postgres aborts a
// transaction after any failed statement, so without the savepoint one bad
// record would poison every statement that follows it; rolling back to the
// savepoint keeps the transaction usable for the rest of the batch.
func (s *Service) saveBatch(ctx context.Context, tx db.Tx, events []dedup.Event, result *SaveResult) {
	recordFailed := func(event dedup.Event, err error) {
		result.Failed++
		s.metrics.EventSaved("failed")
		s.logger.Warn().
			Err(err).
			Str("title", event.Title).
			Str("city", event.DestinationCity).
			Msg("Skipping event record")
	}

	for i, event := range events {
		savepoint := fmt.Sprintf("save_record_%d", i)
		if _, err := tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
			recordFailed(event, fmt.Errorf("open savepoint: %w", err))
			continue
		}

		outcome, err := s.saveOne(ctx, tx, event)
		if err != nil {
			if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
				s.logger.Warn().Err(rbErr).Str("savepoint", savepoint).Msg("Savepoint rollback failed")
			}
			recordFailed(event, err)
			continue
		}

		if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
			s.logger.Warn().Err(err).Str("savepoint", savepoint).Msg("Savepoint release failed")
		}

		switch outcome {
		case outcomeInserted:
			result.Inserted++
		case outcomeUpdated:
			result.Updated++
		default:
			result.Skipped++
		}
		s.metrics.EventSaved(string(outcome))
	}
}

func (s *Service) saveOne(ctx context.Context, tx db.Tx, event dedup.Event) (saveOutcome, error) {
	hash := event.DeduplicationHash
	if hash == "" {
		hash = dedup.GenerateHash(event.Title, event.EventDate, event.DestinationCity, event.Venue)
	}

	stored, found, err := db.FindEventByHashTx(ctx, tx, hash)
	if err != nil {
		return "", err
	}
	if !found {
		if err := s.insertEvent(ctx, tx, event, hash); err != nil {
			return "", err
		}
		return outcomeInserted, nil
	}
	if !shouldUpdate(stored, event) {
		return outcomeSkipped, nil
	}
	if err := s.updateEvent(ctx, tx, stored, event); err != nil {
		return "", err
	}
	return outcomeUpdated, nil
}

func (s *Service) insertEvent(ctx context.Context, tx db.Tx, event dedup.Event, hash string) error {
	q := `
INSERT INTO events (
	destination_city,
	title,
	event_date,
	end_date,
	category,
	description,
	price_range,
	venue,
	source,
	url,
	language,
	deduplication_hash,
	scraped_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`
	_, err := tx.Exec(ctx, q,
		event.DestinationCity,
		event.Title,
		event.EventDate,
		event.EndDate,
		event.Category,
		nullable(event.Description),
		nullable(event.PriceRange),
		nullable(event.Venue),
		event.Source,
		nullable(event.URL),
		nullable(langdetect.DetectISO6391(event.Description)),
		hash,
		globaltime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *Service) updateEvent(ctx context.Context, tx db.Tx, stored db.StoredEvent, event dedup.Event) error {
	plan := planUpdate(stored, event)

	q := `
UPDATE events
SET description = CASE WHEN $2 THEN $3 ELSE description END,
	venue = CASE WHEN $4 THEN $5 ELSE venue END,
	url = CASE WHEN $6 THEN $7 ELSE url END,
	price_range = CASE WHEN $8 THEN $9 ELSE price_range END,
	source = $10,
	scraped_at = $11,
	updated_at = $11
WHERE event_id = $1
`
	_, err := tx.Exec(ctx, q,
		stored.EventID,
		plan.ReplaceDescription, nullable(event.Description),
		plan.FillVenue, nullable(event.Venue),
		plan.FillURL, nullable(event.URL),
		plan.ReplacePriceRange, nullable(event.PriceRange),
		event.Source,
		globaltime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("update event %d: %w", stored.EventID, err)
	}
	return nil
}

func (s *Service) beginRun(ctx context.Context, runUUID, source string, eventsIn int) error {
	q := `
INSERT INTO scrape_runs (run_uuid, source, started_at, status, events_in)
VALUES ($1, $2, $3, 'running', $4)
`
	if _, err := s.pool.Exec(ctx, q, runUUID, source, globaltime.UTC(), eventsIn); err != nil {
		return fmt.Errorf("record scrape run: %w", err)
	}
	return nil
}

// finishRun closes out the ledger row. The ledger is advisory, so a failure
// here is logged rather than surfaced to the caller.
func (s *Service) finishRun(ctx context.Context, result SaveResult, status, errMessage string) {
	q := `
UPDATE scrape_runs
SET finished_at = $2,
	status = $3,
	inserted = $4,
	updated = $5,
	skipped = $6,
	failed_records = $7,
	error_message = $8
WHERE run_uuid = $1
`
	_, err := s.pool.Exec(ctx, q,
		result.RunUUID,
		globaltime.UTC(),
		status,
		result.Inserted,
		result.Updated,
		result.Skipped,
		result.Failed,
		nullable(errMessage),
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("run_uuid", result.RunUUID).Msg("Failed to close scrape run")
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
