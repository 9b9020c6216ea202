// Package observability groups the logging and metrics support used by every
// stage of the notifier.
//
// Subpackages:
//   - logging: slog setup and per-run logger propagation through context
//   - metrics: Prometheus collectors for scrapes, selection, delivery, the
//     seen-set store and whole runs
//
// Example usage:
//
//	import (
//	    "blog-notifier/internal/observability/logging"
//	    "blog-notifier/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    ctx := logging.WithRunID(context.Background(), logger, logging.NewRunID())
//	    logging.FromContext(ctx).Info("run started")
//
//	    metrics.RecordNewItems(2)
//	}
package observability
