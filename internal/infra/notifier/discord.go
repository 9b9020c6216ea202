package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/usecase/notify"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	// WebhookURL is the Discord webhook URL (includes authentication token).
	WebhookURL string

	// Timeout is the HTTP request timeout for one webhook call.
	Timeout time.Duration
}

// DiscordChannel posts one embed per message to a Discord webhook.
type DiscordChannel struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

var _ notify.Channel = (*DiscordChannel)(nil)

// NewDiscordChannel creates a DiscordChannel.
//
// Besides the fixed pause the notifier applies between sends, requests pass a
// token bucket of 0.5 req/s with burst 3 (Discord webhooks allow 30 per minute).
func NewDiscordChannel(config DiscordConfig) *DiscordChannel {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &DiscordChannel{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(0.5, 3),
	}
}

// DiscordWebhookPayload is the JSON body sent to the webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	URL         string             `json:"url"`
	Description string             `json:"description"`
	Color       int                `json:"color"`
	Timestamp   string             `json:"timestamp"`
	Footer      DiscordEmbedFooter `json:"footer"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	// Discord embed limits
	maxTitleLength       = 256
	maxDescriptionLength = 4096
)

// Name implements notify.Channel.
func (d *DiscordChannel) Name() string {
	return ChannelDiscord
}

// buildEmbedPayload wraps msg in a single-embed payload, truncating fields to
// Discord's limits.
func buildEmbedPayload(msg notify.Message) DiscordWebhookPayload {
	return DiscordWebhookPayload{
		Embeds: []DiscordEmbed{{
			Title:       truncate(msg.Title, maxTitleLength, truncationSuffix),
			URL:         msg.URL,
			Description: truncate(msg.Description, maxDescriptionLength, truncationSuffix),
			Color:       msg.Color,
			Timestamp:   msg.Timestamp,
			Footer:      DiscordEmbedFooter{Text: msg.Footer},
		}},
	}
}

// Send implements notify.Channel.
func (d *DiscordChannel) Send(ctx context.Context, msg notify.Message) error {
	logger := logging.FromContext(ctx)

	if err := d.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	if err := postJSON(ctx, d.httpClient, ChannelDiscord, d.config.WebhookURL, buildEmbedPayload(msg)); err != nil {
		return err
	}

	logger.Debug("discord webhook accepted",
		slog.String("request_id", notify.RequestIDFromContext(ctx)),
		slog.String("url", msg.URL))
	return nil
}
