package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"blog-notifier/internal/usecase/notify"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	// WebhookURL is the Slack Incoming Webhook URL (includes authentication token).
	WebhookURL string

	// Timeout is the HTTP request timeout for one webhook call.
	Timeout time.Duration
}

// SlackChannel posts one legacy attachment per message to a Slack Incoming Webhook.
type SlackChannel struct {
	config      SlackConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

var _ notify.Channel = (*SlackChannel)(nil)

// NewSlackChannel creates a SlackChannel limited to 1 req/s, burst 1.
func NewSlackChannel(config SlackConfig) *SlackChannel {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &SlackChannel{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(1.0, 1),
	}
}

// SlackWebhookPayload is the JSON body sent to the webhook.
type SlackWebhookPayload struct {
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

// SlackAttachment mirrors the embed fields Discord shows.
type SlackAttachment struct {
	Fallback  string `json:"fallback"`
	Color     string `json:"color"`
	Title     string `json:"title"`
	TitleLink string `json:"title_link"`
	Text      string `json:"text"`
	Footer    string `json:"footer"`
	Ts        int64  `json:"ts,omitempty"`
}

const (
	maxSlackTextLength  = 3000
	maxFallbackLength   = 150
	maxSlackTitleLength = 256
)

// Name implements notify.Channel.
func (s *SlackChannel) Name() string {
	return ChannelSlack
}

// slackEscaper escapes the characters Slack mrkdwn treats as control syntax.
var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// slackText renders the attachment body in Slack mrkdwn: the headline in bold
// and a "Read more" link to the item.
func slackText(msg notify.Message) string {
	headline := slackEscaper.Replace(strings.TrimSpace(msg.Headline))
	link := fmt.Sprintf("<%s|Read more →>", slackEscaper.Replace(msg.URL))
	if headline == "" {
		return link
	}
	return fmt.Sprintf("*%s*\n\n%s", headline, link)
}

// buildAttachmentPayload converts msg to Slack's attachment format.
func buildAttachmentPayload(msg notify.Message) SlackWebhookPayload {
	var ts int64
	if t, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
		ts = t.Unix()
	}
	fallback := truncate(fmt.Sprintf("%s %s", msg.Title, msg.URL), maxFallbackLength, truncationSuffix)
	return SlackWebhookPayload{
		Text: msg.Title,
		Attachments: []SlackAttachment{{
			Fallback:  fallback,
			Color:     msg.ColorHex(),
			Title:     truncate(msg.Title, maxSlackTitleLength, truncationSuffix),
			TitleLink: msg.URL,
			Text:      truncate(slackText(msg), maxSlackTextLength, truncationSuffix),
			Footer:    msg.Footer,
			Ts:        ts,
		}},
	}
}

// Send implements notify.Channel.
func (s *SlackChannel) Send(ctx context.Context, msg notify.Message) error {
	if err := s.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	return postJSON(ctx, s.httpClient, ChannelSlack, s.config.WebhookURL, buildAttachmentPayload(msg))
}
