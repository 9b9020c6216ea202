// Package announce runs one notification pass: fetch every source, select the
// URLs not announced before, send one message per new item and persist the
// seen-set.
package announce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"blog-notifier/internal/domain/entity"
	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/observability/metrics"
	"blog-notifier/internal/usecase/notify"
	"blog-notifier/internal/usecase/seen"
)

// Scraper aggregates items from every registered source.
type Scraper interface {
	ScrapeAll(ctx context.Context) ([]entity.Item, []string)
}

// SeenStore loads and replaces the seen-set.
type SeenStore interface {
	Load(ctx context.Context) seen.Set
	Replace(ctx context.Context, set seen.Set) error
}

// Formatter renders items into channel messages.
type Formatter interface {
	FormatAll(items []entity.Item) ([]notify.Message, error)
}

// Sender delivers messages in order.
type Sender interface {
	SendAll(ctx context.Context, msgs []notify.Message) error
}

// RunStats summarizes one run.
type RunStats struct {
	Scraped   int
	New       int
	Sent      int
	Persisted bool
	Duration  time.Duration
}

// Service wires the pipeline stages together.
type Service struct {
	Scraper   Scraper
	Store     SeenStore
	Formatter Formatter
	Sender    Sender

	// Out receives the human-readable list of new items. Nil disables it.
	Out io.Writer

	// SkipPersist leaves the seen-set untouched after a successful run.
	// Dry runs set it so a later real run still announces the items.
	SkipPersist bool
}

// NewService creates a Service.
func NewService(scraper Scraper, store SeenStore, formatter Formatter, sender Sender) *Service {
	return &Service{
		Scraper:   scraper,
		Store:     store,
		Formatter: formatter,
		Sender:    sender,
	}
}

// Run executes one pass. On success the seen-set is replaced with the
// previous set plus every URL observed this run, new or not.
//
// Formatting and delivery failures return before persisting, so unsent items
// stay unseen and are offered again on the next run. A failed write of the
// seen-set is returned as *seen.PersistenceError after the messages went out.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()
	stats := &RunStats{}

	err := s.run(ctx, stats)
	stats.Duration = time.Since(start)
	metrics.RecordRun(err == nil, stats.Duration)

	if err != nil {
		logger.Error("run failed",
			slog.Int("scraped", stats.Scraped),
			slog.Int("new", stats.New),
			slog.Int("sent", stats.Sent),
			slog.Duration("duration", stats.Duration),
			slog.Any("error", err))
		return stats, err
	}

	logger.Info("run completed",
		slog.Int("scraped", stats.Scraped),
		slog.Int("new", stats.New),
		slog.Int("sent", stats.Sent),
		slog.Bool("persisted", stats.Persisted),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Service) run(ctx context.Context, stats *RunStats) error {
	logger := logging.FromContext(ctx)

	items, urls := s.Scraper.ScrapeAll(ctx)
	stats.Scraped = len(items)

	previous := s.Store.Load(ctx)
	newURLs := seen.SelectNew(urls, previous)
	stats.New = len(newURLs)
	metrics.RecordNewItems(len(newURLs))

	if len(newURLs) == 0 {
		logger.Info("no new items", slog.Int("scraped", stats.Scraped))
		return s.persist(ctx, previous.Union(urls), stats)
	}

	newItems := selectItems(items, newURLs)
	s.printNewItems(newItems)

	msgs, formatErr := s.Formatter.FormatAll(newItems)
	if formatErr != nil {
		var unsupported *notify.UnsupportedSourceError
		if !errors.As(formatErr, &unsupported) {
			return fmt.Errorf("format messages: %w", formatErr)
		}
		logger.Error("unsupported source, sending messages formatted before it",
			slog.String("source", string(unsupported.Source)),
			slog.Int("formatted", len(msgs)))
	}

	if err := s.send(ctx, msgs, stats); err != nil {
		return err
	}
	if formatErr != nil {
		return formatErr
	}

	return s.persist(ctx, previous.Union(urls), stats)
}

func (s *Service) send(ctx context.Context, msgs []notify.Message, stats *RunStats) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := s.Sender.SendAll(ctx, msgs); err != nil {
		var failure *notify.SendFailure
		if errors.As(err, &failure) {
			stats.Sent = failure.Index
		}
		return err
	}
	stats.Sent = len(msgs)
	return nil
}

func (s *Service) persist(ctx context.Context, next seen.Set, stats *RunStats) error {
	if s.SkipPersist {
		logging.FromContext(ctx).Info("skipping seen-set update", slog.Int("urls", next.Len()))
		return nil
	}
	if err := s.Store.Replace(ctx, next); err != nil {
		return err
	}
	stats.Persisted = true
	return nil
}

// selectItems returns, in newURLs order, the first item observed for each URL.
func selectItems(items []entity.Item, newURLs []string) []entity.Item {
	first := make(map[string]entity.Item, len(items))
	for _, it := range items {
		if _, ok := first[it.URL]; !ok {
			first[it.URL] = it
		}
	}
	out := make([]entity.Item, 0, len(newURLs))
	for _, u := range newURLs {
		if it, ok := first[u]; ok {
			out = append(out, it)
		}
	}
	return out
}

func (s *Service) printNewItems(items []entity.Item) {
	if s.Out == nil {
		return
	}
	var b strings.Builder
	b.WriteString("New items:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "  - [%s] %s\n    %s\n\n", strings.ToUpper(string(it.Source)), it.Title, it.URL)
	}
	_, _ = io.WriteString(s.Out, b.String())
}
