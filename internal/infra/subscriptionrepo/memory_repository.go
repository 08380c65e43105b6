package subscriptionrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
)

// MemoryRepository keeps subscriptions in process memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	subs map[string]billing.Subscription
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{subs: make(map[string]billing.Subscription)}
}

func (r *MemoryRepository) Upsert(_ context.Context, sub billing.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[emailKey(sub.Email)] = sub
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (billing.Subscription, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[emailKey(email)]
	return sub, ok, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ billing.SubscriptionRepository = (*MemoryRepository)(nil)
