// Package metrics exposes Prometheus collectors for the detector. The
// optional HTTP endpoint is loopback-oriented and disabled by default; the
// detector itself never initiates network traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotificationsTotal counts change notifications entering the pipeline.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ransomguard_notifications_total",
			Help: "Change notifications received from the watcher",
		},
		[]string{"kind"},
	)

	// IgnoredTotal counts notifications dropped by the ignore filter.
	IgnoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ransomguard_ignored_total",
			Help: "Notifications skipped as hidden or editor-backup files",
		},
	)

	// AlertsTotal counts emitted alerts by leading reason kind.
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ransomguard_alerts_total",
			Help: "Alerts emitted to the operator",
		},
		[]string{"kind"},
	)

	// AlertsSuppressedTotal counts alerts swallowed by the cooldown.
	AlertsSuppressedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ransomguard_alerts_suppressed_total",
			Help: "Duplicate alerts suppressed within the cooldown",
		},
	)

	// FilesSeeded counts files profiled during the startup scan.
	FilesSeeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ransomguard_files_seeded_total",
			Help: "Files profiled during the initial baseline scan",
		},
	)

	// BaselineEntries tracks the number of paths with recorded history.
	BaselineEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ransomguard_baseline_entries",
			Help: "Paths currently tracked in the baseline",
		},
	)

	// AnalyzeDuration observes per-file analysis latency.
	AnalyzeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ransomguard_analyze_duration_seconds",
			Help:    "Single-pass file analysis duration",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)
)

// Serve starts the metrics endpoint on addr. It blocks; run it in its own
// goroutine and treat errors as fatal to the endpoint only.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
