package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job run outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Metrics tracks scheduled job executions. The per-stage pipeline metrics
// live in internal/observability/metrics; these describe the scheduler.
type Metrics struct {
	// JobRunsTotal counts scheduled runs by status (success, failure, skipped).
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds observes the wall time of each executed run.
	JobDurationSeconds prometheus.Histogram

	// LastSuccessTimestamp is the Unix time of the last successful run.
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics registers the scheduler metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		JobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_notifier_cron_job_runs_total",
			Help: "Total number of scheduled runs by status (success/failure/skipped)",
		}, []string{"status"}),

		JobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blog_notifier_cron_job_duration_seconds",
			Help:    "Duration of scheduled runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "blog_notifier_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled run",
		}),
	}
}

// RecordJobRun increments the run counter for status.
func (m *Metrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's duration in seconds.
func (m *Metrics) RecordJobDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

// RecordLastSuccess stamps the current time as the last success.
func (m *Metrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
