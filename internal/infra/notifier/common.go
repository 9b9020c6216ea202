package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/usecase/notify"
)

// ErrMissingWebhookURL indicates a webhook channel was selected without a URL.
var ErrMissingWebhookURL = errors.New("webhook URL is required")

const (
	truncationSuffix = "..."

	// maxErrorBodySize bounds how much of an error response is kept.
	maxErrorBodySize = 4096
)

// truncate shortens text to at most maxLength runes, ending with suffix when
// it had to cut.
func truncate(text string, maxLength int, suffix string) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	keep := maxLength - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(text)
	return string(runes[:keep]) + suffix
}

// postJSON posts payload to webhookURL. A 2xx answer returns nil; any other
// status returns *notify.DeliveryError carrying the (bounded) response body.
// Transport errors are returned with the webhook URL redacted.
func postJSON(ctx context.Context, client *http.Client, channel, webhookURL string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", sanitizeError(err, webhookURL))
	}
	req.Header.Set("Content-Type", "application/json")
	if id := notify.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", sanitizeError(err, webhookURL))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		logging.FromContext(ctx).Warn("webhook rate limit hit",
			slog.String("channel", channel),
			slog.String("request_id", notify.RequestIDFromContext(ctx)),
			slog.Duration("retry_after", retryAfter(resp.Header, string(respBody))))
	}

	return &notify.DeliveryError{
		Channel:    channel,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(respBody)),
	}
}

// sanitizeError strips webhookURL (which embeds the webhook token) from err.
func sanitizeError(err error, webhookURL string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, redactURL(webhookURL), urlErr.Err)
	}
	if webhookURL != "" && strings.Contains(err.Error(), webhookURL) {
		return errors.New(strings.ReplaceAll(err.Error(), webhookURL, redactURL(webhookURL)))
	}
	return err
}

// redactURL keeps only scheme and host.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "[redacted]"
	}
	return u.Scheme + "://" + u.Host + "/[redacted]"
}

// retryAfter extracts the server's requested back-off from a 429 answer.
// Discord sends retry_after in the JSON body; Slack uses the header.
func retryAfter(header http.Header, body string) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}
	if v := header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}
