package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/observability/metrics"

	"github.com/google/uuid"
)

// DefaultSendInterval is the pause after every send.
const DefaultSendInterval = time.Second

// Notifier delivers a batch of messages through one channel, strictly in
// order, pausing a fixed interval after every send.
type Notifier struct {
	channel  Channel
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewNotifier creates a Notifier. A negative interval is treated as zero.
func NewNotifier(channel Channel, interval time.Duration) *Notifier {
	if interval < 0 {
		interval = 0
	}
	return &Notifier{
		channel:  channel,
		interval: interval,
		sleep:    sleepContext,
	}
}

// Channel returns the name of the outbound channel.
func (n *Notifier) Channel() string {
	return n.channel.Name()
}

// SendAll sends msgs in order and stops at the first failure, which is
// returned as *SendFailure. Nothing is retried.
func (n *Notifier) SendAll(ctx context.Context, msgs []Message) error {
	logger := logging.FromContext(ctx).With(slog.String("channel", n.channel.Name()))

	for i, msg := range msgs {
		if msg.Title == "" || msg.URL == "" {
			return &SendFailure{Index: i, Err: fmt.Errorf("%w: title and url are required", ErrInvalidMessage)}
		}

		requestID := uuid.New().String()
		sendCtx := WithRequestID(ctx, requestID)

		start := time.Now()
		err := n.channel.Send(sendCtx, msg)
		duration := time.Since(start)
		metrics.RecordNotification(n.channel.Name(), err == nil, duration)

		if err != nil {
			logger.Error("notification failed",
				slog.String("request_id", requestID),
				slog.Int("index", i),
				slog.String("url", msg.URL),
				slog.Duration("duration", duration),
				slog.Any("error", err))
			return &SendFailure{Index: i, Err: err}
		}

		logger.Info("notification sent",
			slog.String("request_id", requestID),
			slog.Int("index", i),
			slog.String("url", msg.URL),
			slog.Duration("duration", duration))

		if err := n.sleep(ctx, n.interval); err != nil {
			if i == len(msgs)-1 {
				// The batch is fully delivered; a cancelled pause changes nothing.
				return nil
			}
			return &SendFailure{Index: i + 1, Err: err}
		}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
