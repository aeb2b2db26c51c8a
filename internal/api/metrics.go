package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes; the label set is closed.
const (
	outcomeFound     = "found"
	outcomeNoPath    = "no_path"
	outcomeFallback  = "fallback"
	outcomeInvalid   = "invalid"
	outcomeBudget    = "budget"
	outcomeTimeout   = "timeout"
	outcomeCancelled = "cancelled"
	outcomeError     = "error"
)

var (
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terrapath_search_duration_seconds",
		Help:    "Time spent in a single path search",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"endpoint"})

	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrapath_searches_total",
		Help: "Path searches by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	searchExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "terrapath_search_expanded_cells",
		Help:    "Cells finalized per completed search",
		Buckets: prometheus.ExponentialBuckets(16, 4, 8),
	})

	gridCells = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terrapath_grid_cells",
		Help: "Number of cells in the loaded terrain grid",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrapath_connection_rejected_total",
		Help: "Requests rejected by the rate limiter or origin check",
	}, []string{"reason"}) // "rate_limit", "origin"

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terrapath_websocket_connections_active",
		Help: "Currently open search streams",
	})
)

func recordSearch(endpoint, outcome string, d time.Duration, expanded int) {
	searchDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	searchTotal.WithLabelValues(endpoint, outcome).Inc()
	if expanded > 0 {
		searchExpanded.Observe(float64(expanded))
	}
}

func recordRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}
