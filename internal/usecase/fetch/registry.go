package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/observability/metrics"

	"golang.org/x/sync/errgroup"
)

// Registration pairs an adapter with the source tag it scrapes.
type Registration struct {
	Source  entity.SourceTag
	Adapter Adapter
}

// Registry is the ordered list of adapters consulted on every run.
// It is built once at startup and passed to the orchestrator.
type Registry struct {
	entries []Registration
}

// NewRegistry creates a Registry. Registration order is the order in which
// items are flattened by ScrapeAll.
func NewRegistry(entries ...Registration) *Registry {
	return &Registry{entries: append([]Registration(nil), entries...)}
}

// Register appends an adapter to the registry.
func (r *Registry) Register(source entity.SourceTag, adapter Adapter) {
	r.entries = append(r.entries, Registration{Source: source, Adapter: adapter})
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Sources returns the registered source tags in registration order.
func (r *Registry) Sources() []entity.SourceTag {
	out := make([]entity.SourceTag, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Source)
	}
	return out
}

// ScrapeAll runs every adapter concurrently and waits for all of them.
// Results are flattened in registration order regardless of completion order.
// A failing or panicking adapter contributes nothing; the others are
// unaffected since adapters do not share a cancellation scope.
func (r *Registry) ScrapeAll(ctx context.Context) ([]entity.Item, []string) {
	logger := logging.FromContext(ctx)
	results := make([][]entity.Item, len(r.entries))

	// Plain Group: one adapter's failure must not cancel the rest.
	var g errgroup.Group
	for i, e := range r.entries {
		i, e := i, e
		g.Go(func() error {
			results[i] = r.scrapeOne(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, res := range results {
		total += len(res)
	}
	items := make([]entity.Item, 0, total)
	for _, res := range results {
		items = append(items, res...)
	}

	logger.Info("all sources scraped",
		slog.Int("sources", len(r.entries)),
		slog.Int("items", len(items)))

	return items, entity.URLs(items)
}

func (r *Registry) scrapeOne(ctx context.Context, e Registration) (items []entity.Item) {
	logger := logging.FromContext(ctx).With(slog.String("source", e.Source.String()))
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("source adapter panicked",
				slog.Any("error", fmt.Errorf("%w: %v", ErrAdapterPanic, rec)))
			metrics.RecordScrapeError(e.Source.String(), "panic")
			items = nil
		}
	}()

	items = keepValid(logger, e.Adapter.Scrape(ctx))
	duration := time.Since(start)
	metrics.RecordScrape(e.Source.String(), duration, len(items))

	logger.Info("source scraped",
		slog.Int("items", len(items)),
		slog.Duration("duration", duration))
	return items
}

// keepValid drops items that break the Item invariants. Adapters already
// normalise their output, so a drop here points at an adapter bug.
func keepValid(logger *slog.Logger, items []entity.Item) []entity.Item {
	valid := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			logger.Warn("dropping invalid item",
				slog.String("url", it.URL),
				slog.Any("error", err))
			continue
		}
		valid = append(valid, it)
	}
	return valid
}
