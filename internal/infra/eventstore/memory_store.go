package eventstore

import (
	"context"
	"sync"
	"time"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
)

// MemoryStore tracks processed event ids in memory, expiring them after their ttl.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Claim(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evict(now)
	if expires, ok := s.seen[id]; ok && now.Before(expires) {
		return false, nil
	}
	s.seen[id] = now.Add(ttl)
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
	return nil
}

func (s *MemoryStore) evict(now time.Time) {
	for id, expires := range s.seen {
		if !now.Before(expires) {
			delete(s.seen, id)
		}
	}
}

var _ billing.EventStore = (*MemoryStore)(nil)
