package db

import (
	"context"
	"database/sql"
	"fmt"
)

// MigrateUp creates the seen_documents table. Each row holds one whole
// seen-set document keyed by document ID.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS seen_documents (
    id         TEXT PRIMARY KEY,
    body       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create seen_documents table: %w", err)
	}
	return nil
}
