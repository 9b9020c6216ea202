package seenstore

import (
	"context"
	"sync"

	"blog-notifier/internal/usecase/seen"
)

// MemoryBackend keeps the document in process memory. It backs tests and
// SEEN_STORE=memory, where every process start is a cold start.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

var _ seen.Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Name implements seen.Backend.
func (m *MemoryBackend) Name() string { return "memory" }

// Get implements seen.Backend.
func (m *MemoryBackend) Get(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, seen.ErrDocumentNotFound
	}
	return append([]byte(nil), m.data...), nil
}

// Put implements seen.Backend.
func (m *MemoryBackend) Put(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}
