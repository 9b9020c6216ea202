// Package scraper implements the source adapters: an RSS/Atom adapter built on
// gofeed and an HTML blog-index adapter built on goquery. Both absorb every
// failure and return whatever items they could normalize.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/observability/metrics"
	"blog-notifier/internal/resilience/circuitbreaker"
	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/fetch"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
)

// RSSAdapter scrapes one RSS or Atom feed.
type RSSAdapter struct {
	source         entity.SourceTag
	feedURL        string
	maxItems       int
	timeout        time.Duration
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

var _ fetch.Adapter = (*RSSAdapter)(nil)

// NewRSSAdapter creates an adapter for feedURL tagged with source. maxItems
// and timeout fall back to DefaultMaxItems and DefaultTimeout when zero.
func NewRSSAdapter(client *http.Client, source entity.SourceTag, feedURL string, maxItems int, timeout time.Duration) *RSSAdapter {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RSSAdapter{
		source:         source,
		feedURL:        feedURL,
		maxItems:       maxItems,
		timeout:        timeout,
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig(source.String())),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Scrape fetches the feed and returns at most maxItems normalized items in
// feed order. Any failure is logged and yields nil.
func (a *RSSAdapter) Scrape(ctx context.Context) []entity.Item {
	logger := logging.FromContext(ctx).With(
		slog.String("source", a.source.String()),
		slog.String("feed_url", a.feedURL))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var feed *gofeed.Feed
	err := retry.WithBackoff(ctx, a.retryConfig, func() error {
		result, err := a.circuitBreaker.Execute(func() (interface{}, error) {
			return a.doFetch(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				logger.Warn("feed circuit breaker open, request rejected",
					slog.String("state", a.circuitBreaker.State().String()))
			}
			return err
		}
		feed = result.(*gofeed.Feed)
		return nil
	})
	if err != nil {
		logger.Warn("feed scrape failed", slog.Any("error", fmt.Errorf("%w: %w", fetch.ErrSourceFetch, err)))
		metrics.RecordScrapeError(a.source.String(), scrapeErrorReason(err))
		return nil
	}

	base := a.linkBase(feed)
	items := make([]entity.Item, 0, a.maxItems)
	for _, it := range feed.Items {
		if len(items) == a.maxItems {
			break
		}
		if it == nil || it.Link == "" {
			logger.Debug("skipping feed item without link")
			continue
		}
		link := makeAbsoluteURL(it.Link, base)
		items = append(items, entity.NewItem(it.Title, link, feedItemDate(it), a.source))
	}
	return items
}

// linkBase is the base that relative item links resolve against: the feed's
// own site link when it is absolute, else the feed URL.
func (a *RSSAdapter) linkBase(feed *gofeed.Feed) string {
	if feed.Link != "" && validateURL(feed.Link) == nil {
		return feed.Link
	}
	return a.feedURL
}

// doFetch performs one HTTP round trip and parse, without retry or breaker.
func (a *RSSAdapter) doFetch(ctx context.Context) (*gofeed.Feed, error) {
	if err := validateURL(a.feedURL); err != nil {
		return nil, fmt.Errorf("URL validation failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// feedItemDate prefers the parsed published date, then the parsed updated
// date, then whatever the raw fields can be parsed as. A zero result makes
// entity.NewItem fall back to the scrape time.
func feedItemDate(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return *it.PublishedParsed
	case it.UpdatedParsed != nil:
		return *it.UpdatedParsed
	case it.Published != "":
		return parseDate(it.Published)
	default:
		return parseDate(it.Updated)
	}
}
