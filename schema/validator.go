// Package payloadschema validates scraped event payloads against the v1
// event item contract before they enter the dedup and persistence paths.
package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"fernweh.fit/scout/internal/dedup"
)

//go:embed event_item.schema.json
var eventItemSchemaJSON string

// EventItem is one scraped event as scrapers emit it on the wire. Dates are
// calendar strings; ToEvent converts them to the in-memory representation.
type EventItem struct {
	PayloadVersion  string  `json:"payload_version"`
	Source          string  `json:"source"`
	DestinationCity string  `json:"destination_city"`
	Title           string  `json:"title"`
	Date            string  `json:"date"`
	EndDate         *string `json:"end_date,omitempty"`
	Description     *string `json:"description,omitempty"`
	Venue           *string `json:"venue,omitempty"`
	PriceRange      *string `json:"price_range,omitempty"`
	Category        *string `json:"category,omitempty"`
	URL             *string `json:"url,omitempty"`
}

const dateLayout = "2006-01-02"

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateEventBatch parses a JSON array of event items, validating each
// element. The whole batch is rejected on the first invalid element.
func ValidateEventBatch(payload json.RawMessage) ([]EventItem, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("payload must be a JSON array: %w", err)
	}

	items := make([]EventItem, 0, len(raw))
	for i, elem := range raw {
		item, err := ValidateEventItemPayload(elem)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// ValidateEventItemPayload checks one scraped event against the embedded
// schema plus the semantic rules the schema cannot express.
func ValidateEventItemPayload(payload json.RawMessage) (*EventItem, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var item EventItem
	if err := json.Unmarshal(normalized, &item); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&item); err != nil {
		return nil, err
	}

	return &item, nil
}

// ToEvent converts a validated wire item into the in-memory event record.
func (item *EventItem) ToEvent() (dedup.Event, error) {
	eventDate, err := time.Parse(dateLayout, item.Date)
	if err != nil {
		return dedup.Event{}, fmt.Errorf("parse date: %w", err)
	}

	event := dedup.Event{
		Title:           strings.TrimSpace(item.Title),
		EventDate:       eventDate,
		DestinationCity: strings.TrimSpace(item.DestinationCity),
		Source:          strings.TrimSpace(item.Source),
		Venue:           derefTrim(item.Venue),
		Description:     derefTrim(item.Description),
		PriceRange:      derefTrim(item.PriceRange),
		Category:        derefTrim(item.Category),
		URL:             derefTrim(item.URL),
	}

	if item.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *item.EndDate)
		if err != nil {
			return dedup.Event{}, fmt.Errorf("parse end_date: %w", err)
		}
		event.EndDate = &endDate
	}

	if event.Category == "" {
		event.Category = dedup.CategorizeEvent(event.Title, event.Description)
	}
	if event.PriceRange == "" {
		event.PriceRange = dedup.ExtractPriceRange(event.Description)
	}

	return event, nil
}

// ToEvents converts a validated batch, failing on the first bad date.
func ToEvents(items []EventItem) ([]dedup.Event, error) {
	events := make([]dedup.Event, 0, len(items))
	for i, item := range items {
		event, err := item.ToEvent()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("event_item.schema.json", strings.NewReader(eventItemSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("event_item.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(item *EventItem) error {
	if item == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(item.PayloadVersion) != "v1" {
		return fmt.Errorf("payload_version must be v1")
	}
	if strings.TrimSpace(item.Source) == "" {
		return fmt.Errorf("source must not be empty")
	}
	if strings.TrimSpace(item.DestinationCity) == "" {
		return fmt.Errorf("destination_city must not be empty")
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}

	eventDate, err := time.Parse(dateLayout, item.Date)
	if err != nil {
		return fmt.Errorf("date must be a valid calendar day: %w", err)
	}
	if item.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *item.EndDate)
		if err != nil {
			return fmt.Errorf("end_date must be a valid calendar day: %w", err)
		}
		if endDate.Before(eventDate) {
			return fmt.Errorf("end_date must not precede date")
		}
	}

	if item.URL != nil {
		if err := validateURI("url", *item.URL); err != nil {
			return err
		}
	}

	return nil
}

func validateURI(fieldName, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%s must not be empty", fieldName)
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return fmt.Errorf("%s is not a valid URI: %w", fieldName, err)
	}
	return nil
}

func derefTrim(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
