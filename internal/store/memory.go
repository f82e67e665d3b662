package store

import (
	"context"
	"sync"
)

// MemoryBlob is a concurrency-safe in-memory blob store. State lives for the
// lifetime of the process only, which is the fallback when no Redis address
// is configured.
type MemoryBlob struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBlob creates an empty MemoryBlob.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{data: make(map[string][]byte)}
}

// Get returns the value stored under key, or (nil, nil) when the key has
// never been set. The returned slice is a copy; callers may mutate it.
func (s *MemoryBlob) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value under key, replacing any previous value.
func (s *MemoryBlob) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = stored
	return nil
}

// Close is a no-op; it exists so memory and Redis blobs share a lifecycle.
func (s *MemoryBlob) Close() error {
	return nil
}
