package fetch

import (
	"context"

	"blog-notifier/internal/domain/entity"
)

// Adapter retrieves the current items of one source.
//
// Scrape never returns an error: fetch and parse failures are logged by the
// adapter and reported as an empty slice. Returned items are already
// normalized (absolute URL, placeholder title, parseable date) and bounded to
// the adapter's item limit.
type Adapter interface {
	Scrape(ctx context.Context) []entity.Item
}

// AdapterFunc adapts a plain function to the Adapter interface.
type AdapterFunc func(ctx context.Context) []entity.Item

// Scrape calls f(ctx).
func (f AdapterFunc) Scrape(ctx context.Context) []entity.Item {
	return f(ctx)
}
