package seenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"blog-notifier/internal/usecase/seen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_GetMissing(t *testing.T) {
	backend := NewFileBackend(filepath.Join(t.TempDir(), "blog-cache.json"))

	_, err := backend.Get(context.Background())
	assert.ErrorIs(t, err, seen.ErrDocumentNotFound)
}

func TestFileBackend_PutThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blog-cache.json")
	backend := NewFileBackend(path)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, []byte(sampleDocument)))

	got, err := backend.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileBackend_PutOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(filepath.Join(dir, "blog-cache.json"))
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, []byte("first")))
	require.NoError(t, backend.Put(ctx, []byte("second")))

	got, err := backend.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileBackend_PutFailsWhenParentIsAFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))
	backend := NewFileBackend(filepath.Join(parent, "blog-cache.json"))

	err := backend.Put(context.Background(), []byte(sampleDocument))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create directory")
}

func TestFileBackend_Defaults(t *testing.T) {
	backend := NewFileBackend("")
	assert.Equal(t, DefaultFilePath, backend.Path())
	assert.Equal(t, "file", backend.Name())
}

func TestFileBackend_WithStore(t *testing.T) {
	backend := NewFileBackend(filepath.Join(t.TempDir(), "blog-cache.json"))
	store := seen.NewStore(backend)
	ctx := context.Background()

	assert.Zero(t, store.Load(ctx).Len())

	want := seen.NewSet("https://nextjs.org/blog/next-15", "https://react.dev/blog/2024/12/05/react-19")
	require.NoError(t, store.Replace(ctx, want))
	assert.True(t, want.Equal(store.Load(ctx)))
}

func TestMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	_, err := backend.Get(ctx)
	require.ErrorIs(t, err, seen.ErrDocumentNotFound)

	data := []byte("doc")
	require.NoError(t, backend.Put(ctx, data))
	data[0] = 'x'

	got, err := backend.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "doc", string(got))
}
