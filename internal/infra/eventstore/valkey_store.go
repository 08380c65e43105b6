package eventstore

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
)

// ValkeyStore records processed webhook events in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "webhook"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Claim uses SET NX so only the first delivery of an event wins.
func (s *ValkeyStore) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.eventKey(id)).Value("1").Nx().Ex(ttl).Build()
	err := s.client.Do(ctx, cmd).Error()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ValkeyStore) Release(ctx context.Context, id string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.eventKey(id)).Build()).Error()
}

func (s *ValkeyStore) eventKey(id string) string {
	return fmt.Sprintf("%s:event:%s", s.prefix, id)
}

var _ billing.EventStore = (*ValkeyStore)(nil)
