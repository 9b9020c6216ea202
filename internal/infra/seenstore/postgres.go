package seenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog-notifier/internal/infra/db"
	"blog-notifier/internal/resilience/circuitbreaker"
	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/seen"
)

// DefaultDocumentID is the row ID used when none is configured.
const DefaultDocumentID = "default"

const (
	selectDocumentSQL = `SELECT body FROM seen_documents WHERE id = $1`
	upsertDocumentSQL = `INSERT INTO seen_documents (id, body, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
)

// PostgresBackend keeps the document as one row of seen_documents.
type PostgresBackend struct {
	db          *circuitbreaker.DBCircuitBreaker
	documentID  string
	retryConfig retry.Config
}

var _ seen.Backend = (*PostgresBackend)(nil)

// OpenPostgresBackend opens dsn, creates the schema and returns the backend.
func OpenPostgresBackend(ctx context.Context, dsn, documentID string) (*PostgresBackend, error) {
	conn, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return NewPostgresBackend(conn, documentID), nil
}

// NewPostgresBackend wraps an open pool. The schema must already exist.
func NewPostgresBackend(conn *sql.DB, documentID string) *PostgresBackend {
	if documentID == "" {
		documentID = DefaultDocumentID
	}
	return &PostgresBackend{
		db:          circuitbreaker.NewDBCircuitBreaker(conn),
		documentID:  documentID,
		retryConfig: retry.SeenStoreConfig(),
	}
}

// Name implements seen.Backend.
func (p *PostgresBackend) Name() string { return "postgres" }

// Get implements seen.Backend.
func (p *PostgresBackend) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := retry.WithBackoff(ctx, p.retryConfig, func() error {
		body, err := p.db.QueryBytesContext(ctx, selectDocumentSQL, p.documentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return seen.ErrDocumentNotFound
			}
			return fmt.Errorf("select seen document %q: %w", p.documentID, err)
		}
		data = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements seen.Backend.
func (p *PostgresBackend) Put(ctx context.Context, data []byte) error {
	return retry.WithBackoff(ctx, p.retryConfig, func() error {
		if _, err := p.db.ExecContext(ctx, upsertDocumentSQL, p.documentID, data); err != nil {
			return fmt.Errorf("upsert seen document %q: %w", p.documentID, err)
		}
		return nil
	})
}

// Close closes the underlying pool.
func (p *PostgresBackend) Close() error {
	return p.db.DB().Close()
}
