package observability

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collectors, registered on the default registry.
var (
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyscope_source_requests_total",
			Help: "Source page requests by outcome",
		},
		[]string{"source", "status"},
	)

	SourceRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyscope_source_records_total",
			Help: "Records produced per source, split by placeholder flag",
		},
		[]string{"source", "placeholder"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keyscope_fetch_duration_seconds",
			Help:    "Duration of page fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)

	Blocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyscope_blocks_total",
			Help: "Responses identified as bot walls or captchas",
		},
		[]string{"source", "detector"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyscope_cache_hits_total",
			Help: "Page cache lookups by result",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Stats tracks process-wide totals for the dashboard summary cards.
type Stats struct {
	Searches     atomic.Int64
	Records      atomic.Int64
	Placeholders atomic.Int64
	SourceErrors atomic.Int64
	Exports      atomic.Int64
}

// Global is the process-wide Stats instance.
var Global = &Stats{}

// Snapshot returns all counters as a map.
func (s *Stats) Snapshot() map[string]int64 {
	return map[string]int64{
		"searches":      s.Searches.Load(),
		"records":       s.Records.Load(),
		"placeholders":  s.Placeholders.Load(),
		"source_errors": s.SourceErrors.Load(),
		"exports":       s.Exports.Load(),
	}
}
