package monitoring

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the service's Prometheus instruments. A nil *Metrics is
// valid everywhere and records nothing, so wiring metrics stays optional in
// tests and one-shot CLI runs.
type Metrics struct {
	eventsDeduplicated prometheus.Counter
	duplicatesRemoved  prometheus.Counter
	eventsSaved        *prometheus.CounterVec
	flightCacheHits    prometheus.Counter
	flightCacheMisses  prometheus.Counter
	flightCacheErrors  prometheus.Counter
}

// New registers the instruments on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the instruments on the given registerer.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsDeduplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "events_deduplicated_total",
			Help:      "Candidate events that went through batch deduplication.",
		}),
		duplicatesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "duplicates_removed_total",
			Help:      "Duplicate events removed by batch deduplication.",
		}),
		eventsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "events_saved_total",
			Help:      "Persistence outcomes per deduplicated event.",
		}, []string{"outcome"}),
		flightCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "flight_cache_hits_total",
			Help:      "Flight existence-cache hits.",
		}),
		flightCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "flight_cache_misses_total",
			Help:      "Flight existence-cache misses.",
		}),
		flightCacheErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "flight_cache_errors_total",
			Help:      "Flight cache operations that failed open.",
		}),
	}

	reg.MustRegister(
		m.eventsDeduplicated,
		m.duplicatesRemoved,
		m.eventsSaved,
		m.flightCacheHits,
		m.flightCacheMisses,
		m.flightCacheErrors,
	)
	return m
}

func (m *Metrics) ObserveDeduplication(input, removed int) {
	if m == nil {
		return
	}
	m.eventsDeduplicated.Add(float64(input))
	m.duplicatesRemoved.Add(float64(removed))
}

func (m *Metrics) EventSaved(outcome string) {
	if m == nil {
		return
	}
	m.eventsSaved.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FlightCacheHit() {
	if m == nil {
		return
	}
	m.flightCacheHits.Inc()
}

func (m *Metrics) FlightCacheMiss() {
	if m == nil {
		return
	}
	m.flightCacheMisses.Inc()
}

func (m *Metrics) FlightCacheError() {
	if m == nil {
		return
	}
	m.flightCacheErrors.Inc()
}
