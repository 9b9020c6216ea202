// Package config assembles the process configuration from the environment,
// an optional .env file and an optional YAML sources file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"blog-notifier/internal/infra/notifier"
	"blog-notifier/internal/infra/scraper"
	"blog-notifier/internal/infra/seenstore"
	"blog-notifier/internal/infra/worker"
	"blog-notifier/internal/usecase/notify"
	envconfig "blog-notifier/pkg/config"

	"github.com/joho/godotenv"
)

// Run modes.
const (
	RunModeOnce = "once"
	RunModeCron = "cron"
)

// Config is everything the notifier needs to start.
type Config struct {
	RunMode string

	// DryRun sends through the log channel instead of a webhook and leaves
	// the seen-set untouched unless DryRunPersist is set.
	DryRun        bool
	DryRunPersist bool

	SendInterval time.Duration
	FetchTimeout time.Duration

	Notifier    notifier.Config
	SeenStore   seenstore.Config
	SourcesFile string
	Sources     []scraper.SourceConfig
	Worker      worker.Config
}

// Persist reports whether a successful run should write the seen-set.
func (c *Config) Persist() bool {
	return !c.DryRun || c.DryRunPersist
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the environment, applies the sources file and validates the
// result. Every validation problem is reported in one error.
func Load() (*Config, error) {
	webhookTimeout := envconfig.GetEnvDuration("WEBHOOK_TIMEOUT", 30*time.Second)

	cfg := &Config{
		RunMode:       strings.ToLower(envconfig.GetEnvString("RUN_MODE", RunModeOnce)),
		DryRun:        envconfig.GetEnvBool("DRY_RUN", false),
		DryRunPersist: envconfig.GetEnvBool("DRY_RUN_PERSIST", false),
		SendInterval:  envconfig.GetEnvDuration("SEND_INTERVAL", notify.DefaultSendInterval),
		FetchTimeout:  envconfig.GetEnvDuration("FETCH_TIMEOUT", scraper.DefaultTimeout),
		Notifier: notifier.Config{
			Channel: envconfig.GetEnvString("NOTIFY_CHANNEL", notifier.ChannelDiscord),
			Discord: notifier.DiscordConfig{
				WebhookURL: envconfig.GetEnvString("DISCORD_WEBHOOK_URL", ""),
				Timeout:    webhookTimeout,
			},
			Slack: notifier.SlackConfig{
				WebhookURL: envconfig.GetEnvString("SLACK_WEBHOOK_URL", ""),
				Timeout:    webhookTimeout,
			},
		},
		SeenStore: seenstore.Config{
			Backend:  envconfig.GetEnvString("SEEN_STORE", seenstore.KindFile),
			FilePath: envconfig.GetEnvString("SEEN_STORE_PATH", seenstore.DefaultFilePath),
			Gist: seenstore.GistConfig{
				GistID:   envconfig.GetEnvString("GIST_ID", ""),
				Token:    envconfig.GetEnvString("GIST_TOKEN", ""),
				Filename: envconfig.GetEnvString("GIST_FILENAME", seenstore.DefaultGistFilename),
			},
			S3: seenstore.S3Config{
				Bucket:       envconfig.GetEnvString("S3_BUCKET", ""),
				Key:          envconfig.GetEnvString("S3_KEY", seenstore.DefaultGistFilename),
				Region:       envconfig.GetEnvString("AWS_REGION", ""),
				Profile:      envconfig.GetEnvString("AWS_PROFILE", ""),
				UsePathStyle: envconfig.GetEnvBool("S3_USE_PATH_STYLE", false),
			},
			Redis: seenstore.RedisConfig{
				Addr:     envconfig.GetEnvString("REDIS_ADDR", ""),
				Password: envconfig.GetEnvString("REDIS_PASSWORD", ""),
				DB:       envconfig.GetEnvInt("REDIS_DB", 0),
				Key:      envconfig.GetEnvString("REDIS_KEY", seenstore.DefaultRedisKey),
			},
			Postgres: seenstore.PostgresConfig{
				DSN:        envconfig.GetEnvString("DATABASE_URL", ""),
				DocumentID: envconfig.GetEnvString("SEEN_DOCUMENT_ID", seenstore.DefaultDocumentID),
			},
		},
		SourcesFile: envconfig.GetEnvString("SOURCES_FILE", ""),
		Worker:      worker.LoadConfigFromEnv(),
	}

	if cfg.DryRun {
		cfg.Notifier.Channel = notifier.ChannelLog
	}

	sources, err := LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}
	for i := range sources {
		if sources[i].Timeout == 0 {
			sources[i].Timeout = cfg.FetchTimeout
		}
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the whole configuration and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.RunMode {
	case RunModeOnce:
		if err := envconfig.ValidateDurationRange(c.Worker.RunTimeout, time.Minute, time.Hour); err != nil {
			errs = append(errs, fmt.Errorf("RUN_TIMEOUT: %w", err))
		}
	case RunModeCron:
		if err := c.Worker.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("worker: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("RUN_MODE must be %q or %q, got %q", RunModeOnce, RunModeCron, c.RunMode))
	}

	if err := c.validateChannel(); err != nil {
		errs = append(errs, err)
	}
	if c.SendInterval < 0 {
		errs = append(errs, fmt.Errorf("SEND_INTERVAL must not be negative, got %v", c.SendInterval))
	}
	if err := envconfig.ValidatePositiveDuration(c.FetchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT: %w", err))
	}
	if err := c.SeenStore.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("seen store: %w", err))
	}

	enabled := 0
	for _, src := range c.Sources {
		if err := src.Validate(); err != nil {
			errs = append(errs, err)
		}
		if !src.Disabled {
			enabled++
		}
	}
	if enabled == 0 {
		errs = append(errs, errors.New("no sources enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

func (c *Config) validateChannel() error {
	switch strings.ToLower(c.Notifier.Channel) {
	case notifier.ChannelDiscord, "":
		if c.Notifier.Discord.WebhookURL == "" {
			return errors.New("DISCORD_WEBHOOK_URL is required")
		}
	case notifier.ChannelSlack:
		if c.Notifier.Slack.WebhookURL == "" {
			return errors.New("SLACK_WEBHOOK_URL is required")
		}
	case notifier.ChannelLog:
	default:
		return fmt.Errorf("NOTIFY_CHANNEL must be one of discord, slack, log; got %q", c.Notifier.Channel)
	}
	return nil
}
