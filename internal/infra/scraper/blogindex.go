package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/observability/metrics"
	"blog-notifier/internal/resilience/circuitbreaker"
	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/fetch"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
)

// Default selectors for a blog index that renders one anchor per post.
const (
	DefaultItemSelector  = "a[href*='/blog/']"
	DefaultTitleSelector = "h2"
	DefaultDateSelector  = "time"
)

// Selectors locates posts in a blog index page.
type Selectors struct {
	// Item matches one anchor per post; its href is the post link.
	Item string `yaml:"item"`
	// Title is searched inside the anchor.
	Title string `yaml:"title"`
	// Date is searched in the anchor's ancestors, nearest first.
	Date string `yaml:"date"`
}

func (s Selectors) withDefaults() Selectors {
	if s.Item == "" {
		s.Item = DefaultItemSelector
	}
	if s.Title == "" {
		s.Title = DefaultTitleSelector
	}
	if s.Date == "" {
		s.Date = DefaultDateSelector
	}
	return s
}

// BlogIndexAdapter scrapes a rendered HTML blog index page. It consumes the
// markup as served; pages that only render client-side must be fronted by a
// prerendering proxy.
type BlogIndexAdapter struct {
	source         entity.SourceTag
	pageURL        string
	baseURL        string
	selectors      Selectors
	maxItems       int
	timeout        time.Duration
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

var _ fetch.Adapter = (*BlogIndexAdapter)(nil)

// NewBlogIndexAdapter creates an adapter for pageURL. Relative post links are
// resolved against baseURL. Empty selectors take the package defaults.
func NewBlogIndexAdapter(client *http.Client, source entity.SourceTag, pageURL, baseURL string, selectors Selectors, maxItems int, timeout time.Duration) *BlogIndexAdapter {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if baseURL == "" {
		baseURL = pageURL
	}
	return &BlogIndexAdapter{
		source:         source,
		pageURL:        pageURL,
		baseURL:        baseURL,
		selectors:      selectors.withDefaults(),
		maxItems:       maxItems,
		timeout:        timeout,
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.BlogIndexConfig(source.String())),
		retryConfig:    retry.BlogIndexConfig(),
	}
}

// Scrape fetches the index page and returns at most maxItems posts in page
// order. Any failure is logged and yields nil.
func (a *BlogIndexAdapter) Scrape(ctx context.Context) []entity.Item {
	logger := logging.FromContext(ctx).With(
		slog.String("source", a.source.String()),
		slog.String("page_url", a.pageURL))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var doc *goquery.Document
	err := retry.WithBackoff(ctx, a.retryConfig, func() error {
		result, err := a.circuitBreaker.Execute(func() (interface{}, error) {
			return a.fetchHTML(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				logger.Warn("blog index circuit breaker open, request rejected",
					slog.String("state", a.circuitBreaker.State().String()))
			}
			return err
		}
		doc = result.(*goquery.Document)
		return nil
	})
	if err != nil {
		logger.Warn("blog index scrape failed", slog.Any("error", fmt.Errorf("%w: %w", fetch.ErrSourceFetch, err)))
		metrics.RecordScrapeError(a.source.String(), scrapeErrorReason(err))
		return nil
	}

	items := a.extractItems(ctx, doc)
	if len(items) == 0 {
		logger.Warn("no posts matched selector", slog.String("selector", a.selectors.Item))
		metrics.RecordScrapeError(a.source.String(), "no_items")
	}
	return items
}

// fetchHTML fetches and parses the index page.
func (a *BlogIndexAdapter) fetchHTML(ctx context.Context) (*goquery.Document, error) {
	if err := validateURL(a.pageURL); err != nil {
		return nil, fmt.Errorf("URL validation failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

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

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// extractItems walks the matched anchors in document order. Anchors without
// a title or href are skipped.
func (a *BlogIndexAdapter) extractItems(ctx context.Context, doc *goquery.Document) []entity.Item {
	logger := logging.FromContext(ctx)
	items := make([]entity.Item, 0, a.maxItems)

	doc.Find(a.selectors.Item).EachWithBreak(func(i int, link *goquery.Selection) bool {
		title := strings.TrimSpace(link.Find(a.selectors.Title).First().Text())
		if title == "" {
			logger.Debug("skipping post with empty title", slog.Int("index", i))
			return true
		}

		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			logger.Debug("skipping post with empty href", slog.Int("index", i), slog.String("title", title))
			return true
		}

		published := parseDate(a.nearestDate(link))
		items = append(items, entity.NewItem(title, makeAbsoluteURL(href, a.baseURL), published, a.source))
		return len(items) < a.maxItems
	})

	return items
}

// nearestDate looks for the date element in the closest ancestor of link that
// contains one, stopping at body. It prefers the datetime attribute over text.
func (a *BlogIndexAdapter) nearestDate(link *goquery.Selection) string {
	for parent := link.Parent(); parent.Length() > 0 && !parent.Is("body"); parent = parent.Parent() {
		el := parent.Find(a.selectors.Date).First()
		if el.Length() == 0 {
			continue
		}
		if dt, ok := el.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return dt
		}
		return strings.TrimSpace(el.Text())
	}
	return ""
}
