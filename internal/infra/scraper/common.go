package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/resilience/retry"

	"github.com/sony/gobreaker"
)

const (
	// DefaultMaxItems bounds each adapter's output, most recent first as served.
	DefaultMaxItems = 5

	// DefaultTimeout bounds one adapter's whole Scrape call, retries included.
	DefaultTimeout = 60 * time.Second

	maxBodySize = 10 * 1024 * 1024 // 10MB
	userAgent   = "BlogNotifierBot/1.0"
)

// dateLayouts are tried in order for raw date strings found in feeds and pages.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// parseDate parses raw using dateLayouts. It returns the zero time when raw is
// empty or matches no layout.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// validateURL rejects anything that is not an absolute http(s) URL.
func validateURL(rawURL string) error {
	return entity.ValidateURL(rawURL)
}

// makeAbsoluteURL resolves href against base. Absolute hrefs are returned
// unchanged; an unusable base leaves href as is.
func makeAbsoluteURL(href, base string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if !strings.HasPrefix(ref.Path, "/") && ref.Path != "" {
		ref.Path = "/" + ref.Path
	}
	return baseURL.ResolveReference(ref).String()
}

// scrapeErrorReason maps an adapter failure to a low-cardinality metric label.
func scrapeErrorReason(err error) string {
	var httpErr *retry.HTTPError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("http_%d", httpErr.StatusCode)
	case errors.Is(err, entity.ErrValidationFailed):
		return "invalid_url"
	default:
		return "fetch_failed"
	}
}
