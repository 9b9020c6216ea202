package config

import (
	"fmt"
	"os"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/infra/scraper"

	"gopkg.in/yaml.v3"
)

// sourcesFile is the YAML layout of SOURCES_FILE:
//
//	sources:
//	  - source: react
//	    url: https://react.dev/rss.xml
//	    max_items: 3
//	  - source: ianlog
//	    selectors:
//	      item: "a[href*='/posts/']"
type sourcesFile struct {
	Sources []scraper.SourceConfig `yaml:"sources"`
}

// LoadSources returns the built-in sources with the overrides from path
// applied. An empty path yields the defaults.
func LoadSources(path string) ([]scraper.SourceConfig, error) {
	sources := scraper.DefaultSources()
	if path == "" {
		return sources, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	return ApplySourceOverrides(sources, data)
}

// ApplySourceOverrides merges the YAML document data into sources by tag.
// Only non-zero fields override. Tags outside the closed source set are
// rejected, and so are tags with no built-in entry.
func ApplySourceOverrides(sources []scraper.SourceConfig, data []byte) ([]scraper.SourceConfig, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	index := make(map[entity.SourceTag]int, len(sources))
	for i, src := range sources {
		index[src.Source] = i
	}

	out := append([]scraper.SourceConfig(nil), sources...)
	for _, o := range file.Sources {
		tag, err := entity.ParseSourceTag(string(o.Source))
		if err != nil {
			return nil, fmt.Errorf("sources file: %w", err)
		}
		i, ok := index[tag]
		if !ok {
			return nil, fmt.Errorf("sources file: source %q has no built-in entry", tag)
		}
		out[i] = merge(out[i], o)
	}
	return out, nil
}

func merge(base, o scraper.SourceConfig) scraper.SourceConfig {
	if o.Kind != "" {
		base.Kind = o.Kind
	}
	if o.URL != "" {
		base.URL = o.URL
	}
	if o.BaseURL != "" {
		base.BaseURL = o.BaseURL
	}
	if o.MaxItems > 0 {
		base.MaxItems = o.MaxItems
	}
	if o.Timeout > 0 {
		base.Timeout = o.Timeout
	}
	if o.Selectors.Item != "" {
		base.Selectors.Item = o.Selectors.Item
	}
	if o.Selectors.Title != "" {
		base.Selectors.Title = o.Selectors.Title
	}
	if o.Selectors.Date != "" {
		base.Selectors.Date = o.Selectors.Date
	}
	base.Disabled = o.Disabled
	return base
}
