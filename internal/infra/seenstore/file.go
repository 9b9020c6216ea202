// Package seenstore provides the storage backends for the seen-set document:
// local file, GitHub Gist, S3, Redis, Postgres and an in-memory backend.
// Every backend stores the whole document as opaque bytes; encoding lives in
// the seen package.
package seenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"blog-notifier/internal/usecase/seen"

	"github.com/google/renameio/v2"
)

// DefaultFilePath is where the file backend keeps the document by default.
const DefaultFilePath = "./blog-cache.json"

// FileBackend keeps the document in a local file. Writes are atomic: a
// crash leaves either the old or the new document, never a partial one.
type FileBackend struct {
	path string
}

var _ seen.Backend = (*FileBackend)(nil)

// NewFileBackend creates a FileBackend for path (DefaultFilePath when empty).
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileBackend{path: path}
}

// Name implements seen.Backend.
func (f *FileBackend) Name() string { return "file" }

// Path returns the document path.
func (f *FileBackend) Path() string { return f.path }

// Get implements seen.Backend.
func (f *FileBackend) Get(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, seen.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// Put implements seen.Backend.
func (f *FileBackend) Put(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := renameio.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
