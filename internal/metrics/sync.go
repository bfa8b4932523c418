package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	syncResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "sync_results_total",
			Help:      "Single-task sync outcomes by action",
		},
		[]string{"action"},
	)

	resyncDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "resync_duration_seconds",
			Help:      "Full resync duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "query_duration_seconds",
			Help:      "Index query duration in seconds by operation",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(syncResults)
	prometheus.MustRegister(resyncDuration)
	prometheus.MustRegister(searchDuration)
}

// RecordSyncResult counts one single-task sync outcome.
func RecordSyncResult(action string) {
	syncResults.WithLabelValues(action).Inc()
}

// RecordResync observes a full resync duration.
func RecordResync(took time.Duration) {
	resyncDuration.Observe(took.Seconds())
}

// RecordQuery observes one index query duration.
func RecordQuery(operation string, took time.Duration) {
	searchDuration.WithLabelValues(operation).Observe(took.Seconds())
}
