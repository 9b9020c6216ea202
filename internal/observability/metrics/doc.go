// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - Source adapter metrics (items scraped, failures, duration)
//   - Delivery metrics (new items, notifications per channel)
//   - Seen-set store metrics (load/replace outcomes, set size)
//   - Run metrics (outcome, duration, last success)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint when the process runs in cron mode.
//
// Example usage:
//
//	import "blog-notifier/internal/observability/metrics"
//
//	start := time.Now()
//	items := adapter.Scrape(ctx)
//	metrics.RecordScrape("react", time.Since(start), len(items))
package metrics
