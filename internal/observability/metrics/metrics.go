package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "labtrade_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	snapshotBuilds  *prometheus.CounterVec
	snapshotLatency *prometheus.HistogramVec
	recordsExcluded *prometheus.CounterVec
	exportsTotal    *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
)

// Init registers analytics metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		snapshotBuilds = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_builds_total",
				Help: "Total analytics snapshot builds by result",
			},
			[]string{"result"},
		)
		snapshotLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "snapshot_build_seconds",
				Help:    "Analytics snapshot build latency in seconds (fetch + normalize + aggregate)",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		recordsExcluded = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_excluded_total",
				Help: "Total raw records excluded during normalization by reason",
			},
			[]string{"reason"},
		)
		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total summary exports by format and result",
			},
			[]string{"format", "result"},
		)
		jobRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "job_runs_total",
				Help: "Total scheduled job runs by job and result",
			},
			[]string{"job", "result"},
		)

		prometheus.MustRegister(
			snapshotBuilds,
			snapshotLatency,
			recordsExcluded,
			exportsTotal,
			jobRuns,
		)
	})
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// ObserveSnapshot records snapshot build duration and result.
func ObserveSnapshot(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if snapshotBuilds != nil {
		snapshotBuilds.WithLabelValues(result).Inc()
	}
	if snapshotLatency != nil {
		snapshotLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddExcluded increments the exclusion counter by count.
func AddExcluded(reason string, count int) {
	if count <= 0 {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	if recordsExcluded != nil {
		recordsExcluded.WithLabelValues(reason).Add(float64(count))
	}
}

// IncExport increments the export counter.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportsTotal != nil {
		exportsTotal.WithLabelValues(format, result).Inc()
	}
}

// IncJobRun increments the scheduled job counter.
func IncJobRun(job, result string) {
	if jobRuns != nil {
		jobRuns.WithLabelValues(job, result).Inc()
	}
}
