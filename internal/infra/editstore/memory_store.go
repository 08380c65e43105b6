package editstore

import (
	"context"
	"sync"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/inlineedit"
)

// MemoryStore keeps edit blobs in memory. Useful for tests and local dev.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore constructs storage.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), body...)
	return nil
}

var _ inlineedit.Store = (*MemoryStore)(nil)
