// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Run ID propagation
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "blog-notifier/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    slog.SetDefault(logger)
//	    logger.Info("notifier started", slog.String("mode", "once"))
//	}
package logging
