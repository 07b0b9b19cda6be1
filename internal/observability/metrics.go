// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scan metrics
	ScansTotal        *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	PostsFetched      prometheus.Counter
	PostOutcomes      *prometheus.CounterVec
	LastScanTimestamp prometheus.Gauge

	// Launch metrics
	LaunchesTotal   *prometheus.CounterVec
	SymbolConflicts prometheus.Counter

	// Upload metrics
	ImageUploads *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "petpad"
	}

	return &Metrics{
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "scans_total",
			Help:      "Total number of scan cycles by status",
		}, []string{"status"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "scan_duration_seconds",
			Help:      "Scan cycle duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		PostsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "posts_fetched_total",
			Help:      "Total number of candidate posts fetched from the feed",
		}),
		PostOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "post_outcomes_total",
			Help:      "Total number of newly examined posts by outcome",
		}, []string{"outcome"}),
		LastScanTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "last_scan_timestamp",
			Help:      "Unix timestamp of the last completed scan cycle",
		}),
		LaunchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "launches_total",
			Help:      "Total number of launch attempts by status",
		}, []string{"status"}),
		SymbolConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "symbol_conflicts_total",
			Help:      "Total number of launch requests skipped because the symbol was taken",
		}),
		ImageUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "image_uploads_total",
			Help:      "Total number of image upload attempts by provider and status",
		}, []string{"provider", "status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordScan records a completed or failed scan cycle.
func RecordScan(status string, durationSeconds float64) {
	DefaultMetrics.ScansTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ScanDuration.Observe(durationSeconds)
}

// RecordPostsFetched adds to the fetched-posts counter.
func RecordPostsFetched(n int) {
	DefaultMetrics.PostsFetched.Add(float64(n))
}

// RecordPostOutcome records the outcome of a newly examined post.
func RecordPostOutcome(outcome string) {
	DefaultMetrics.PostOutcomes.WithLabelValues(outcome).Inc()
}

// SetLastScan updates the last-scan gauge.
func SetLastScan(unixSeconds float64) {
	DefaultMetrics.LastScanTimestamp.Set(unixSeconds)
}

// RecordLaunch records a launch attempt.
func RecordLaunch(status string) {
	DefaultMetrics.LaunchesTotal.WithLabelValues(status).Inc()
}

// RecordSymbolConflict increments the symbol conflict counter.
func RecordSymbolConflict() {
	DefaultMetrics.SymbolConflicts.Inc()
	DefaultMetrics.LaunchesTotal.WithLabelValues("conflict").Inc()
}

// RecordImageUpload records an image upload attempt.
func RecordImageUpload(provider, status string) {
	DefaultMetrics.ImageUploads.WithLabelValues(provider, status).Inc()
}
