package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fernweh.fit/scout/internal/dedup"
	"fernweh.fit/scout/internal/flightcache"
	"fernweh.fit/scout/internal/monitoring"
)

func newTestServer(t *testing.T) (*Server, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewWithRegistry(registry)
	cache := flightcache.New(client, time.Hour, "flight:", zerolog.Nop(), metrics)
	deduper := dedup.NewDeduplicator(dedup.NewMatcher(dedup.DefaultFuzzyThreshold), true, zerolog.Nop())

	return NewServer(nil, cache, deduper, registry, zerolog.Nop(), Options{}), server
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := s.buildEcho()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSend(t *testing.T, rec *httptest.ResponseRecorder) jsendResponse {
	t.Helper()

	var resp jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return resp
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeJSend(t, rec)
	if resp.Status != "success" {
		t.Fatalf("expected success status, got %q", resp.Status)
	}
}

func TestHandleMetricsExposesCounters(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scout_flight_cache_hits_total") {
		t.Fatalf("expected flight cache counter in metrics output, got:\n%s", rec.Body.String())
	}
}

func TestHandleDedupPreview(t *testing.T) {
	s, _ := newTestServer(t)

	payload := `[
		{
			"payload_version":"v1",
			"source":"timeout",
			"destination_city":"Lisbon",
			"title":"Lisbon Jazz Festival 2025",
			"date":"2025-07-12",
			"description":"Three days of jazz."
		},
		{
			"payload_version":"v1",
			"source":"eventbrite",
			"destination_city":"Lisbon",
			"title":"Lisbon Jazz Festival",
			"date":"2025-07-12",
			"description":"Three days of open air jazz at the waterfront."
		}
	]`

	rec := doRequest(t, s, http.MethodPost, "/v1/events/dedup", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			EventsIn          int `json:"events_in"`
			EventsOut         int `json:"events_out"`
			DuplicatesRemoved int `json:"duplicates_removed"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.EventsIn != 2 {
		t.Fatalf("expected 2 events in, got %d", resp.Data.EventsIn)
	}
	if resp.Data.EventsOut != 1 {
		t.Fatalf("expected the near-identical titles to merge, got %d events", resp.Data.EventsOut)
	}
	if resp.Data.DuplicatesRemoved != 1 {
		t.Fatalf("expected 1 duplicate removed, got %d", resp.Data.DuplicatesRemoved)
	}
}

func TestHandleDedupPreviewRejectsBadPayload(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/v1/events/dedup", `{"not":"an array"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decodeJSend(t, rec)
	if resp.Status != "fail" {
		t.Fatalf("expected fail status, got %q", resp.Status)
	}
}

func TestHandleCacheStatsAndClear(t *testing.T) {
	s, server := newTestServer(t)

	server.Set("flight:aaa", "cached")
	server.Set("flight:bbb", "cached")
	server.Set("other:ccc", "cached")

	rec := doRequest(t, s, http.MethodGet, "/v1/flights/cache/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var statsResp struct {
		Data struct {
			TotalKeys int64  `json:"total_keys"`
			KeyPrefix string `json:"key_prefix"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &statsResp); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if statsResp.Data.TotalKeys != 2 {
		t.Fatalf("expected 2 prefixed keys, got %d", statsResp.Data.TotalKeys)
	}

	rec = doRequest(t, s, http.MethodDelete, "/v1/flights/cache", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var clearResp struct {
		Data struct {
			Cleared int64 `json:"cleared"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &clearResp); err != nil {
		t.Fatalf("decode clear response: %v", err)
	}
	if clearResp.Data.Cleared != 2 {
		t.Fatalf("expected 2 keys cleared, got %d", clearResp.Data.Cleared)
	}
	if !server.Exists("other:ccc") {
		t.Fatal("keys outside the prefix must survive a clear")
	}
}

func TestHandleEventsRequiresFilter(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/v1/events", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a filter, got %d", rec.Code)
	}
}
