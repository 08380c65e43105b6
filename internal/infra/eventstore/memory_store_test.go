package eventstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreClaim(t *testing.T) {
	current := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	first, err := store.Claim(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	require.True(t, first)

	again, err := store.Claim(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	require.False(t, again)

	current = current.Add(2 * time.Hour)
	expired, err := store.Claim(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	require.True(t, expired)
}

func TestMemoryStoreRelease(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ok, err := store.Claim(ctx, "evt_2", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, "evt_2"))

	ok, err = store.Claim(ctx, "evt_2", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValkeyEventKey(t *testing.T) {
	store := NewValkeyStore(nil, "")
	require.Equal(t, "webhook:event:evt_9", store.eventKey("evt_9"))
}
