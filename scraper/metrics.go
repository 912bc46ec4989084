package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the fetch pipeline.
type Metrics struct {
	Registry           *prometheus.Registry
	FetchesTotal       *prometheus.CounterVec
	FetchDuration      prometheus.Histogram
	RowsExtractedTotal prometheus.Counter
	SkippedRowsTotal   prometheus.Counter
	CacheHitsTotal     prometheus.Counter
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_fetches_total",
			Help: "Total daily page fetches by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "balance_fetch_duration_seconds",
			Help:    "Latency of daily page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	rowsExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_rows_extracted_total",
			Help: "Total data rows extracted from fetched pages.",
		},
	)
	skippedRows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_rows_skipped_total",
			Help: "Total malformed data rows skipped during extraction.",
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_cache_hits_total",
			Help: "Total day fetches served from the in-process cache.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_fetch_errors_total",
			Help: "Total fetch errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(fetches, fetchDuration, rowsExtracted, skippedRows, cacheHits, errorsTotal)

	return &Metrics{
		Registry:           registry,
		FetchesTotal:       fetches,
		FetchDuration:      fetchDuration,
		RowsExtractedTotal: rowsExtracted,
		SkippedRowsTotal:   skippedRows,
		CacheHitsTotal:     cacheHits,
		ErrorsTotal:        errorsTotal,
	}
}

// IncFetch increments the fetches counter for an outcome label.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records a fetch duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// AddRows adds to the extracted rows counter.
func (m *Metrics) AddRows(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsExtractedTotal.Add(float64(n))
}

// IncSkippedRow increments the malformed row counter.
func (m *Metrics) IncSkippedRow() {
	if m == nil {
		return
	}
	m.SkippedRowsTotal.Inc()
}

// IncCacheHit increments the cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
