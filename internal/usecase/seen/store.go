package seen

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/observability/metrics"
)

// Backend reads and replaces the whole seen-set document. Implementations
// never patch a document partially.
type Backend interface {
	// Name identifies the backend in logs and metrics (e.g. "file", "gist").
	Name() string

	// Get returns the stored document, or ErrDocumentNotFound if none exists.
	Get(ctx context.Context) ([]byte, error)

	// Put overwrites the stored document with data.
	Put(ctx context.Context, data []byte) error
}

// Store is the seen-set store used by the announce pipeline. It is read once
// at the start of a run and written once at the end of a successful run.
type Store struct {
	backend Backend
	now     func() time.Time
}

// NewStore creates a Store over backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// Backend returns the name of the configured backend.
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Load returns the persisted seen-set. Absence, read failures and corrupt
// documents all yield an empty set; they are logged, never returned.
func (s *Store) Load(ctx context.Context) Set {
	logger := logging.FromContext(ctx).With(slog.String("backend", s.backend.Name()))

	data, err := s.backend.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			logger.Info("seen-set not found, starting with empty cache")
		} else {
			logger.Warn("seen-set read failed, starting with empty cache", slog.Any("error", err))
		}
		metrics.RecordStoreOperation(s.backend.Name(), "load", "cold_start")
		return NewSet()
	}

	set, doc, err := Decode(data)
	if err != nil {
		logger.Warn("seen-set document is corrupt, starting with empty cache", slog.Any("error", err))
		metrics.RecordStoreOperation(s.backend.Name(), "load", "cold_start")
		return NewSet()
	}

	logger.Info("seen-set loaded",
		slog.Int("urls", set.Len()),
		slog.String("last_updated", doc.LastUpdated))
	metrics.RecordStoreOperation(s.backend.Name(), "load", "success")
	return set
}

// Replace persists set as the new seen-set, overwriting the previous document.
func (s *Store) Replace(ctx context.Context, set Set) error {
	logger := logging.FromContext(ctx).With(slog.String("backend", s.backend.Name()))

	data, err := Encode(set, s.now())
	if err != nil {
		metrics.RecordStoreOperation(s.backend.Name(), "replace", "failure")
		return &PersistenceError{Backend: s.backend.Name(), Err: err}
	}

	if err := s.backend.Put(ctx, data); err != nil {
		metrics.RecordStoreOperation(s.backend.Name(), "replace", "failure")
		return &PersistenceError{Backend: s.backend.Name(), Err: err}
	}

	metrics.RecordStoreOperation(s.backend.Name(), "replace", "success")
	metrics.UpdateSeenURLs(set.Len())
	logger.Info("seen-set updated", slog.Int("urls", set.Len()))
	return nil
}
