package db

import "time"

// Event maps the events table: one persisted, deduplicated event per
// identity hash. The hash column is indexed because the persistence merge
// path looks rows up by it on every save.
type Event struct {
	EventID           int64      `gorm:"column:event_id;primaryKey;autoIncrement"`
	DestinationCity   string     `gorm:"column:destination_city;type:varchar(100);not null;index"`
	Title             string     `gorm:"column:title;type:varchar(200);not null"`
	EventDate         time.Time  `gorm:"column:event_date;type:date;not null;index"`
	EndDate           *time.Time `gorm:"column:end_date;type:date"`
	Category          string     `gorm:"column:category;type:varchar(50);not null;index"`
	Description       *string    `gorm:"column:description;type:text"`
	PriceRange        *string    `gorm:"column:price_range;type:varchar(50)"`
	Venue             *string    `gorm:"column:venue;type:varchar(200)"`
	Source            string     `gorm:"column:source;type:varchar(50);not null"`
	URL               *string    `gorm:"column:url;type:text"`
	Language          *string    `gorm:"column:language;type:varchar(2)"`
	DeduplicationHash string     `gorm:"column:deduplication_hash;type:varchar(64);not null;index"`
	ScrapedAt         time.Time  `gorm:"column:scraped_at;type:timestamptz;not null"`
	CreatedAt         time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Event) TableName() string { return "events" }

// ScrapeRun maps the scrape_runs ledger: one row per SaveEvents batch with
// its per-outcome counts, for observability of the best-effort save path.
type ScrapeRun struct {
	RunID         int64      `gorm:"column:run_id;primaryKey;autoIncrement"`
	RunUUID       string     `gorm:"column:run_uuid;type:uuid;not null;unique"`
	Source        string     `gorm:"column:source;type:text;not null"`
	StartedAt     time.Time  `gorm:"column:started_at;type:timestamptz;not null"`
	FinishedAt    *time.Time `gorm:"column:finished_at;type:timestamptz"`
	Status        string     `gorm:"column:status;type:text;not null;default:running"`
	EventsIn      int        `gorm:"column:events_in;type:integer;not null;default:0"`
	Inserted      int        `gorm:"column:inserted;type:integer;not null;default:0"`
	Updated       int        `gorm:"column:updated;type:integer;not null;default:0"`
	Skipped       int        `gorm:"column:skipped;type:integer;not null;default:0"`
	FailedRecords int        `gorm:"column:failed_records;type:integer;not null;default:0"`
	ErrorMessage  *string    `gorm:"column:error_message;type:text"`
	CreatedAt     time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ScrapeRun) TableName() string { return "scrape_runs" }

func autoMigrateModels() []any {
	return []any{
		&Event{},
		&ScrapeRun{},
	}
}
