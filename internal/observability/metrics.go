package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/healthdata/internal/aggregate"
)

var (
	recordsScanned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "health_server",
		Subsystem: "export",
		Name:      "records_scanned_total",
		Help:      "Raw records consumed from the export stream, per dataset.",
	}, []string{"dataset"})
	recordsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "health_server",
		Subsystem: "export",
		Name:      "records_skipped_total",
		Help:      "Records excluded from totals, per dataset and reason.",
	}, []string{"dataset", "reason"})
	scanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "health_server",
		Subsystem: "export",
		Name:      "scan_duration_seconds",
		Help:      "Wall time of one full export scan.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"dataset"})
	lastScanGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "health_server",
		Subsystem: "export",
		Name:      "last_scan_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed scan.",
	}, []string{"dataset"})
)

func init() {
	prometheus.MustRegister(recordsScanned, recordsSkipped, scanDuration, lastScanGauge)
}

// ObserveActivityScan publishes the counters of a completed activity scan.
func ObserveActivityScan(stats aggregate.ActivityStats, elapsed time.Duration) {
	recordsScanned.WithLabelValues("activity").Add(float64(stats.RecordsScanned))
	recordsSkipped.WithLabelValues("activity", "out_of_window").Add(float64(stats.SkippedOutOfWindow))
	recordsSkipped.WithLabelValues("activity", "invalid").Add(float64(stats.SkippedInvalid))
	recordsSkipped.WithLabelValues("activity", "source").Add(float64(stats.SkippedBySource))
	scanDuration.WithLabelValues("activity").Observe(elapsed.Seconds())
	lastScanGauge.WithLabelValues("activity").SetToCurrentTime()
}

// ObserveSleepScan publishes the counters of a completed sleep scan.
func ObserveSleepScan(stats aggregate.SleepStats, elapsed time.Duration) {
	recordsScanned.WithLabelValues("sleep").Add(float64(stats.RecordsScanned))
	recordsSkipped.WithLabelValues("sleep", "invalid").Add(float64(stats.SkippedInvalid))
	scanDuration.WithLabelValues("sleep").Observe(elapsed.Seconds())
	lastScanGauge.WithLabelValues("sleep").SetToCurrentTime()
}
