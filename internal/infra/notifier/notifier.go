// Package notifier implements the outbound notification channels: Discord and
// Slack incoming webhooks, and a log channel used for dry runs. Exactly one is
// active per process; NewChannel picks it by name.
package notifier

import (
	"fmt"
	"strings"

	"blog-notifier/internal/usecase/notify"
)

// Channel names accepted by NewChannel.
const (
	ChannelDiscord = "discord"
	ChannelSlack   = "slack"
	ChannelLog     = "log"
)

// Config selects and configures the outbound channel.
type Config struct {
	Channel string
	Discord DiscordConfig
	Slack   SlackConfig
}

// NewChannel builds the channel named by cfg.Channel.
func NewChannel(cfg Config) (notify.Channel, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Channel)) {
	case ChannelDiscord, "":
		if cfg.Discord.WebhookURL == "" {
			return nil, fmt.Errorf("discord channel: %w", ErrMissingWebhookURL)
		}
		return NewDiscordChannel(cfg.Discord), nil
	case ChannelSlack:
		if cfg.Slack.WebhookURL == "" {
			return nil, fmt.Errorf("slack channel: %w", ErrMissingWebhookURL)
		}
		return NewSlackChannel(cfg.Slack), nil
	case ChannelLog:
		return NewLogChannel(), nil
	default:
		return nil, fmt.Errorf("unknown notify channel %q", cfg.Channel)
	}
}
