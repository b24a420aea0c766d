package httpapi

import (
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	payloadschema "fernweh.fit/scout/schema"
)

// handleDedupPreview runs a scraped batch through validation and
// deduplication without touching the database.
func (s *Server) handleDedupPreview(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 8<<20))
	if err != nil {
		return failValidation(c, map[string]string{"body": "could not read request body"})
	}

	items, err := payloadschema.ValidateEventBatch(body)
	if err != nil {
		return failValidation(c, map[string]string{"payload": err.Error()})
	}

	events, err := payloadschema.ToEvents(items)
	if err != nil {
		return failValidation(c, map[string]string{"payload": err.Error()})
	}

	deduplicated, removed := s.deduper.Deduplicate(events)

	return success(c, map[string]any{
		"events_in":          len(events),
		"events_out":         len(deduplicated),
		"duplicates_removed": removed,
		"events":             deduplicated,
	})
}

// handleEvents reads stored events filtered by city or source.
func (s *Server) handleEvents(c echo.Context) error {
	if s.pool == nil {
		return internalError(c, "Event store is not configured")
	}

	limit, err := parsePositiveInt(c.QueryParam("limit"), 100, 1, 500)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	city := strings.TrimSpace(c.QueryParam("city"))
	source := strings.TrimSpace(c.QueryParam("source"))

	switch {
	case city != "" && source != "":
		return failValidation(c, map[string]string{"filter": "use either city or source, not both"})
	case city != "":
		events, err := s.pool.EventsByCity(c.Request().Context(), city, limit)
		if err != nil {
			s.logger.Error().Err(err).Str("city", city).Msg("query events by city failed")
			return internalError(c, "Failed to load events")
		}
		return success(c, map[string]any{"items": events, "city": city, "limit": limit})
	case source != "":
		events, err := s.pool.EventsBySource(c.Request().Context(), source, limit)
		if err != nil {
			s.logger.Error().Err(err).Str("source", source).Msg("query events by source failed")
			return internalError(c, "Failed to load events")
		}
		return success(c, map[string]any{"items": events, "source": source, "limit": limit})
	default:
		return failValidation(c, map[string]string{"filter": "city or source is required"})
	}
}
