package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

const reactFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>React Blog</title>
    <link>https://react.dev/blog</link>
    <item>
      <title>React 19</title>
      <link>https://react.dev/blog/2024/12/05/react-19</link>
      <pubDate>Thu, 05 Dec 2024 00:00:00 +0000</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://react.dev/blog/untitled</link>
      <pubDate>Wed, 04 Dec 2024 00:00:00 +0000</pubDate>
    </item>
    <item>
      <title>No link</title>
      <pubDate>Tue, 03 Dec 2024 00:00:00 +0000</pubDate>
    </item>
    <item>
      <title>No date</title>
      <link>https://react.dev/blog/no-date</link>
    </item>
  </channel>
</rss>`

func TestRSSAdapter_Scrape(t *testing.T) {
	server := serve(t, "application/rss+xml", reactFeed)
	adapter := NewRSSAdapter(server.Client(), entity.SourceReact, server.URL, 0, 0)

	before := time.Now().Add(-time.Second)
	items := adapter.Scrape(context.Background())

	require.Len(t, items, 3)

	assert.Equal(t, entity.Item{
		Title:  "React 19",
		URL:    "https://react.dev/blog/2024/12/05/react-19",
		Date:   "2024-12-05T00:00:00Z",
		Source: entity.SourceReact,
	}, items[0])

	assert.Equal(t, entity.UntitledPlaceholder, items[1].Title, "missing title gets the placeholder")
	assert.Equal(t, "https://react.dev/blog/no-date", items[2].URL, "items without link are dropped")

	fallback, err := time.Parse(time.RFC3339, items[2].Date)
	require.NoError(t, err)
	assert.True(t, fallback.After(before), "missing date falls back to scrape time")

	for _, it := range items {
		assert.NoError(t, it.Validate())
	}
}

func TestRSSAdapter_Scrape_Atom(t *testing.T) {
	atom := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>TkDodo</title>
  <entry>
    <title>Practical React Query</title>
    <link href="https://tkdodo.eu/blog/practical-react-query"/>
    <updated>2024-03-01T10:00:00Z</updated>
  </entry>
</feed>`
	server := serve(t, "application/atom+xml", atom)
	adapter := NewRSSAdapter(server.Client(), entity.SourceTkDodo, server.URL, 5, time.Second)

	items := adapter.Scrape(context.Background())

	require.Len(t, items, 1)
	assert.Equal(t, "2024-03-01T10:00:00Z", items[0].Date, "updated date is used when published is absent")
	assert.Equal(t, entity.SourceTkDodo, items[0].Source)
}

func TestRSSAdapter_Scrape_MaxItems(t *testing.T) {
	feed := `<?xml version="1.0"?><rss version="2.0"><channel><title>x</title>`
	for _, slug := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		feed += `<item><title>` + slug + `</title><link>https://nextjs.org/blog/` + slug + `</link></item>`
	}
	feed += `</channel></rss>`
	server := serve(t, "application/rss+xml", feed)

	items := NewRSSAdapter(server.Client(), entity.SourceNextJS, server.URL, 0, 0).Scrape(context.Background())

	require.Len(t, items, DefaultMaxItems)
	assert.Equal(t, "https://nextjs.org/blog/a", items[0].URL)
	assert.Equal(t, "https://nextjs.org/blog/e", items[4].URL)
}

func TestRSSAdapter_Scrape_RelativeLinks(t *testing.T) {
	t.Run("TC-1: resolved against the channel link", func(t *testing.T) {
		feed := `<?xml version="1.0"?><rss version="2.0"><channel><title>React</title>
<link>https://react.dev/blog</link>
<item><title>Relative</title><link>/blog/relative-post</link></item>
</channel></rss>`
		server := serve(t, "application/rss+xml", feed)
		adapter := NewRSSAdapter(server.Client(), entity.SourceReact, server.URL, 0, 0)

		items, urls := fetch.NewRegistry(fetch.Registration{Source: entity.SourceReact, Adapter: adapter}).
			ScrapeAll(context.Background())

		require.Len(t, items, 1, "relative links must survive item validation")
		assert.Equal(t, []string{"https://react.dev/blog/relative-post"}, urls)
	})

	t.Run("TC-2: resolved against the feed URL without a channel link", func(t *testing.T) {
		feed := `<?xml version="1.0"?><rss version="2.0"><channel><title>React</title>
<item><title>Relative</title><link>/blog/relative-post</link></item>
</channel></rss>`
		server := serve(t, "application/rss+xml", feed)

		items := NewRSSAdapter(server.Client(), entity.SourceReact, server.URL+"/feed.xml", 0, 0).
			Scrape(context.Background())

		require.Len(t, items, 1)
		assert.Equal(t, server.URL+"/blog/relative-post", items[0].URL)
		assert.NoError(t, items[0].Validate())
	})
}

func TestRSSAdapter_Scrape_Failures(t *testing.T) {
	t.Run("TC-1: server error yields no items after retry", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		adapter := NewRSSAdapter(server.Client(), entity.SourceReact, server.URL, 0, 0)
		adapter.retryConfig = fastRetry()

		assert.Empty(t, adapter.Scrape(context.Background()))
		assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	})

	t.Run("TC-2: invalid XML yields no items", func(t *testing.T) {
		server := serve(t, "application/rss+xml", "<rss><channel><item>")
		adapter := NewRSSAdapter(server.Client(), entity.SourceReact, server.URL, 0, 0)
		adapter.retryConfig = fastRetry()

		assert.Empty(t, adapter.Scrape(context.Background()))
	})

	t.Run("TC-3: invalid URL yields no items", func(t *testing.T) {
		adapter := NewRSSAdapter(http.DefaultClient, entity.SourceReact, "ftp://react.dev/rss.xml", 0, 0)
		adapter.retryConfig = fastRetry()

		assert.Empty(t, adapter.Scrape(context.Background()))
	})

	t.Run("TC-4: timeout yields no items", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		adapter := NewRSSAdapter(server.Client(), entity.SourceReact, server.URL, 0, 50*time.Millisecond)
		adapter.retryConfig = fastRetry()

		start := time.Now()
		assert.Empty(t, adapter.Scrape(context.Background()))
		assert.Less(t, time.Since(start), time.Second)
	})
}
