package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fernweh.fit/scout/internal/db"
	"fernweh.fit/scout/internal/dedup"
)

// recordingTx satisfies db.Tx against no database. QueryRow yields an empty
// row, so every lookup reports not-found and saveBatch takes the insert
// path; inserts whose title matches failTitle error like an oversized value
// would.
type recordingTx struct {
	statements []string
	failTitle  string
}

func (t *recordingTx) QueryRow(ctx context.Context, query string, args ...any) *db.Row {
	t.statements = append(t.statements, query)
	return &db.Row{}
}

func (t *recordingTx) Query(ctx context.Context, query string, args ...any) (*db.Rows, error) {
	return nil, errors.New("not implemented")
}

func (t *recordingTx) Exec(ctx context.Context, query string, args ...any) (db.CommandTag, error) {
	t.statements = append(t.statements, query)
	if strings.Contains(query, "INSERT INTO events") && len(args) > 1 && args[1] == t.failTitle {
		return db.CommandTag{}, fmt.Errorf("value too long for type character varying(200)")
	}
	return db.CommandTag{}, nil
}

func (t *recordingTx) Commit(ctx context.Context) error   { return nil }
func (t *recordingTx) Rollback(ctx context.Context) error { return nil }

func (t *recordingTx) indexOf(needle string) int {
	for i, stmt := range t.statements {
		if strings.Contains(stmt, needle) {
			return i
		}
	}
	return -1
}

func TestSaveBatchIsolatesFailedRecordWithSavepoint(t *testing.T) {
	t.Parallel()

	tx := &recordingTx{failTitle: "Broken Record"}
	svc := NewService(nil, nil, zerolog.Nop(), nil)

	d := time.Date(2025, time.July, 12, 0, 0, 0, 0, time.UTC)
	events := []dedup.Event{
		{Title: "Fado Night", EventDate: d, DestinationCity: "Lisbon", Source: "timeout"},
		{Title: "Broken Record", EventDate: d, DestinationCity: "Lisbon", Source: "timeout"},
		{Title: "Wine Tasting", EventDate: d, DestinationCity: "Lisbon", Source: "timeout"},
	}

	var result SaveResult
	svc.saveBatch(context.Background(), tx, events, &result)

	if result.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", result.Inserted)
	}
	if result.Failed != 1 {
		t.Fatalf("expected 1 failed, got %d", result.Failed)
	}

	// The failed record must be rolled back to its own savepoint so the
	// transaction stays usable for the records after it.
	rollbackIdx := tx.indexOf("ROLLBACK TO SAVEPOINT save_record_1")
	if rollbackIdx < 0 {
		t.Fatalf("expected a rollback to the failed record's savepoint, statements: %v", tx.statements)
	}
	if tx.indexOf("RELEASE SAVEPOINT save_record_0") < 0 {
		t.Fatalf("expected the first record's savepoint to be released")
	}

	lastSavepointIdx := tx.indexOf("SAVEPOINT save_record_2")
	if lastSavepointIdx < rollbackIdx {
		t.Fatalf("the record after the failure must run after the rollback")
	}
	if tx.indexOf("RELEASE SAVEPOINT save_record_2") < 0 {
		t.Fatalf("expected the last record's savepoint to be released")
	}
}
