package notifier

import (
	"context"
	"log/slog"
	"sync/atomic"

	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/usecase/notify"
)

// LogChannel writes messages to the logger instead of delivering them.
// It backs dry runs and always succeeds.
type LogChannel struct {
	sent atomic.Int64
}

var _ notify.Channel = (*LogChannel)(nil)

// NewLogChannel creates a LogChannel.
func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

// Name implements notify.Channel.
func (l *LogChannel) Name() string {
	return ChannelLog
}

// Send logs msg and returns nil.
func (l *LogChannel) Send(ctx context.Context, msg notify.Message) error {
	l.sent.Add(1)
	logging.FromContext(ctx).Info("dry run: notification not delivered",
		slog.String("request_id", notify.RequestIDFromContext(ctx)),
		slog.String("title", msg.Title),
		slog.String("url", msg.URL),
		slog.String("footer", msg.Footer),
		slog.String("timestamp", msg.Timestamp))
	return nil
}

// Sent returns the number of messages logged so far.
func (l *LogChannel) Sent() int64 {
	return l.sent.Load()
}
