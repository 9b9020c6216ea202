package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/resilience/retry"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-05-01T09:00:00Z", time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
		{"Thu, 05 Dec 2024 00:00:00 +0000", time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)},
		{"Thu, 5 Dec 2024 00:00:00 +0000", time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"March 3, 2025", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"Mar 3, 2025", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := parseDate(tt.raw)
			assert.True(t, tt.want.Equal(got), "parseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		})
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct {
		href, base, want string
	}{
		{"/blog/post", "https://ianlog.me", "https://ianlog.me/blog/post"},
		{"blog/post", "https://ianlog.me", "https://ianlog.me/blog/post"},
		{"./blog/post", "https://ianlog.me", "https://ianlog.me/blog/post"},
		{"/blog/post", "https://ianlog.me/blog", "https://ianlog.me/blog/post"},
		{"https://other.example/blog/x", "https://ianlog.me", "https://other.example/blog/x"},
		{"/blog/post", "", "/blog/post"},
	}

	for _, tt := range tests {
		t.Run(tt.href+"@"+tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, makeAbsoluteURL(tt.href, tt.base))
		})
	}
}

func TestScrapeErrorReason(t *testing.T) {
	assert.Equal(t, "circuit_open", scrapeErrorReason(gobreaker.ErrOpenState))
	assert.Equal(t, "timeout", scrapeErrorReason(fmt.Errorf("retry aborted: %w", context.DeadlineExceeded)))
	assert.Equal(t, "http_503", scrapeErrorReason(fmt.Errorf("max retry: %w", &retry.HTTPError{StatusCode: 503})))
	assert.Equal(t, "invalid_url", scrapeErrorReason(fmt.Errorf("URL validation failed: %w", &entity.ValidationError{Field: "url"})))
	assert.Equal(t, "fetch_failed", scrapeErrorReason(errors.New("parse feed")))
}
