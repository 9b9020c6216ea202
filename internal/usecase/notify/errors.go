package notify

import (
	"errors"
	"fmt"

	"blog-notifier/internal/domain/entity"
)

// ErrInvalidMessage indicates a message missing its title or URL.
var ErrInvalidMessage = errors.New("invalid message")

// UnsupportedSourceError reports an item whose source tag has no formatter.
// It is fatal for the run.
type UnsupportedSourceError struct {
	Source entity.SourceTag
}

// Error implements the error interface.
func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("no formatter registered for source %q", e.Source)
}

// DeliveryError reports a non-2xx answer from the outbound channel.
type DeliveryError struct {
	Channel    string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: status %d: %s", e.Channel, e.StatusCode, e.Body)
}

// SendFailure reports which message of a batch failed. Messages before Index
// were delivered; none after it were attempted.
type SendFailure struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *SendFailure) Error() string {
	return fmt.Sprintf("send message %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying channel error.
func (e *SendFailure) Unwrap() error {
	return e.Err
}
