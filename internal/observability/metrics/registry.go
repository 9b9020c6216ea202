package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scrape metrics track what each source adapter contributes to a run
var (
	// ItemsScrapedTotal counts items produced by each source adapter
	ItemsScrapedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_items_scraped_total",
			Help: "Total number of items produced by source adapters",
		},
		[]string{"source"},
	)

	// ScrapeErrorsTotal counts adapter failures absorbed at the adapter boundary
	ScrapeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_scrape_errors_total",
			Help: "Total number of source adapter failures",
		},
		[]string{"source", "reason"},
	)

	// ScrapeDuration measures one adapter's scrape time
	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_scrape_duration_seconds",
			Help:    "Time taken by a source adapter to produce its items",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)
)

// Delivery metrics track formatted messages going to the outbound channel
var (
	// NewItemsTotal counts items selected as never announced before
	NewItemsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "new_items_total",
			Help: "Total number of items selected for announcement",
		},
	)

	// NotificationsTotal counts send results per channel
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notifications sent",
		},
		[]string{"channel", "status"}, // status: success|failure
	)

	// NotificationDuration measures a single channel send
	NotificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_duration_seconds",
			Help:    "Notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)
)

// Seen-set store metrics
var (
	// StoreOperationsTotal counts load and replace outcomes per backend
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seen_store_operations_total",
			Help: "Total number of seen-set store operations",
		},
		[]string{"backend", "operation", "status"}, // status: success|cold_start|failure
	)

	// SeenURLs tracks the size of the most recently persisted seen-set
	SeenURLs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seen_store_urls",
			Help: "Number of URLs in the persisted seen-set",
		},
	)
)

// Run metrics track whole pipeline executions
var (
	// RunsTotal counts runs by outcome
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "announce_runs_total",
			Help: "Total number of announce runs",
		},
		[]string{"status"}, // status: success|failure
	)

	// RunDuration measures a full fetch-diff-send-persist run
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "announce_run_duration_seconds",
			Help:    "Duration of a full announce run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// LastSuccessTimestamp records the Unix time of the last successful run
	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "announce_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful announce run",
		},
	)
)
