package metrics

import (
	"time"
)

// RecordScrape records one adapter's contribution to a run.
func RecordScrape(source string, duration time.Duration, items int) {
	ScrapeDuration.WithLabelValues(source).Observe(duration.Seconds())
	ItemsScrapedTotal.WithLabelValues(source).Add(float64(items))
}

// RecordScrapeError records a failure absorbed inside a source adapter.
// Reason is a short machine label such as "fetch_failed" or "parse_failed".
func RecordScrapeError(source, reason string) {
	ScrapeErrorsTotal.WithLabelValues(source, reason).Inc()
}

// RecordNewItems records how many items a run selected for announcement.
func RecordNewItems(count int) {
	NewItemsTotal.Add(float64(count))
}

// RecordNotification records the result of a single channel send.
func RecordNotification(channel string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	NotificationsTotal.WithLabelValues(channel, status).Inc()
	NotificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordStoreOperation records a seen-set load or replace.
// Status should be one of "success", "cold_start" or "failure".
func RecordStoreOperation(backend, operation, status string) {
	StoreOperationsTotal.WithLabelValues(backend, operation, status).Inc()
}

// UpdateSeenURLs sets the persisted seen-set size gauge.
func UpdateSeenURLs(count int) {
	SeenURLs.Set(float64(count))
}

// RecordRun records the outcome and duration of a full run.
func RecordRun(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
	if success {
		LastSuccessTimestamp.Set(float64(time.Now().Unix()))
	}
}
