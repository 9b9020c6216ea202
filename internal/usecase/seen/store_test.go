package seen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend with injectable failures.
type fakeBackend struct {
	mu     sync.Mutex
	data   []byte
	getErr error
	putErr error
	puts   int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Get(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.data == nil {
		return nil, ErrDocumentNotFound
	}
	return append([]byte(nil), f.data...), nil
}

func (f *fakeBackend) Put(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.data = append([]byte(nil), data...)
	f.puts++
	return nil
}

func TestStore_RoundTrip(t *testing.T) {
	backend := &fakeBackend{}
	store := NewStore(backend)
	ctx := context.Background()
	assert.Equal(t, "fake", store.Backend())

	want := NewSet("https://react.dev/blog/a", "https://nextjs.org/blog/b", "https://tkdodo.eu/blog/c")
	require.NoError(t, store.Replace(ctx, want))

	got := store.Load(ctx)
	assert.True(t, want.Equal(got), "loaded set must equal persisted set")
	assert.Equal(t, 1, backend.puts)
}

func TestStore_LoadColdStart(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
	}{
		{name: "document absent", backend: &fakeBackend{}},
		{name: "backend unreachable", backend: &fakeBackend{getErr: errors.New("connection refused")}},
		{name: "corrupt document", backend: &fakeBackend{data: []byte("{not json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStore(tt.backend).Load(context.Background())
			assert.NotNil(t, got)
			assert.Equal(t, 0, got.Len())
		})
	}
}

func TestStore_LoadNullURLs(t *testing.T) {
	backend := &fakeBackend{data: []byte(`{"seenUrls":null,"lastUpdated":""}`)}
	got := NewStore(backend).Load(context.Background())
	assert.Equal(t, 0, got.Len())
}

func TestStore_ReplaceFailure(t *testing.T) {
	cause := errors.New("disk full")
	store := NewStore(&fakeBackend{putErr: cause})

	err := store.Replace(context.Background(), NewSet("https://react.dev/blog/a"))
	require.Error(t, err)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "fake", perr.Backend)
	assert.ErrorIs(t, err, cause)
}

func TestEncodeDecode(t *testing.T) {
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	data, err := Encode(NewSet("https://b.example/2", "https://a.example/1"), updated)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"seenUrls": ["https://a.example/1", "https://b.example/2"],
		"lastUpdated": "2025-06-01T12:00:00Z"
	}`, string(data))

	set, doc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T12:00:00Z", doc.LastUpdated)
	assert.True(t, set.Has("https://a.example/1"))
	assert.True(t, set.Has("https://b.example/2"))
}
