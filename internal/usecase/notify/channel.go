// Package notify turns new items into outbound messages and delivers them,
// one at a time, through the single configured channel.
package notify

import (
	"context"
)

// Channel is an outbound message sink (Discord webhook, Slack webhook, log).
//
// Send delivers exactly one message. A non-2xx answer from the remote end must
// be reported as *DeliveryError. Implementations do not retry; the caller
// decides what a failure means for the run.
type Channel interface {
	// Name identifies the channel in logs and metrics (e.g. "discord").
	Name() string

	// Send delivers msg. It must respect ctx cancellation.
	Send(ctx context.Context, msg Message) error
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the per-message request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
