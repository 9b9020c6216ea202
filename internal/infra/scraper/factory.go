package scraper

import (
	"fmt"
	"net/http"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/usecase/fetch"
)

// Adapter kinds accepted in SourceConfig.Kind.
const (
	KindRSS       = "rss"
	KindBlogIndex = "blog-index"
)

// SourceConfig describes how one source is scraped.
type SourceConfig struct {
	Source   entity.SourceTag `yaml:"source"`
	Kind     string           `yaml:"kind"`
	URL      string           `yaml:"url"`
	BaseURL  string           `yaml:"base_url"`
	MaxItems int              `yaml:"max_items"`
	Timeout  time.Duration    `yaml:"timeout"`
	Disabled bool             `yaml:"disabled"`

	Selectors Selectors `yaml:"selectors"`
}

// DefaultSources returns the built-in source list in registration order.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Source: entity.SourceNextJS, Kind: KindRSS, URL: "https://nextjs.org/feed.xml", MaxItems: DefaultMaxItems},
		{Source: entity.SourceReact, Kind: KindRSS, URL: "https://react.dev/rss.xml", MaxItems: DefaultMaxItems},
		{Source: entity.SourceTkDodo, Kind: KindRSS, URL: "https://tkdodo.eu/blog/rss.xml", MaxItems: DefaultMaxItems},
		{
			Source:   entity.SourceIanlog,
			Kind:     KindBlogIndex,
			URL:      "https://ianlog.me/blog",
			BaseURL:  "https://ianlog.me",
			MaxItems: DefaultMaxItems,
		},
	}
}

// Validate reports configuration errors that would make the adapter useless.
func (c SourceConfig) Validate() error {
	if !c.Source.Valid() {
		return fmt.Errorf("source %q: unknown source tag", c.Source)
	}
	if c.Kind != KindRSS && c.Kind != KindBlogIndex {
		return fmt.Errorf("source %q: unknown kind %q (want %s or %s)", c.Source, c.Kind, KindRSS, KindBlogIndex)
	}
	if err := validateURL(c.URL); err != nil {
		return fmt.Errorf("source %q: url: %w", c.Source, err)
	}
	if c.BaseURL != "" {
		if err := validateURL(c.BaseURL); err != nil {
			return fmt.Errorf("source %q: base_url: %w", c.Source, err)
		}
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("source %q: max_items must not be negative", c.Source)
	}
	return nil
}

// Factory builds adapters sharing one HTTP client.
type Factory struct {
	client *http.Client
}

// NewFactory creates a Factory. The client should carry a sane timeout.
func NewFactory(client *http.Client) *Factory {
	return &Factory{client: client}
}

// NewAdapter builds the adapter described by cfg.
func (f *Factory) NewAdapter(cfg SourceConfig) (fetch.Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindBlogIndex:
		return NewBlogIndexAdapter(f.client, cfg.Source, cfg.URL, cfg.BaseURL, cfg.Selectors, cfg.MaxItems, cfg.Timeout), nil
	default:
		return NewRSSAdapter(f.client, cfg.Source, cfg.URL, cfg.MaxItems, cfg.Timeout), nil
	}
}

// NewRegistry builds a registry from cfgs in order, skipping disabled sources.
func (f *Factory) NewRegistry(cfgs []SourceConfig) (*fetch.Registry, error) {
	reg := fetch.NewRegistry()
	for _, cfg := range cfgs {
		if cfg.Disabled {
			continue
		}
		adapter, err := f.NewAdapter(cfg)
		if err != nil {
			return nil, err
		}
		reg.Register(cfg.Source, adapter)
	}
	return reg, nil
}
