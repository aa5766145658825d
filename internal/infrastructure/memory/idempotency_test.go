package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_RememberThenLookup(t *testing.T) {
	s := NewIdempotencyStore(time.Minute)
	ctx := context.Background()

	_, ok, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remember(ctx, "k1", "tx-1"))

	id, ok, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tx-1", id)
}

func TestIdempotencyStore_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewIdempotencyStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "k1", "tx-1"))

	now = now.Add(59 * time.Second)
	_, ok, _ := s.Lookup(ctx, "k1")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = s.Lookup(ctx, "k1")
	assert.False(t, ok)
}

func TestIdempotencyStore_RememberEvictsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewIdempotencyStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "old", "tx-1"))
	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Remember(ctx, "new", "tx-2"))

	assert.Len(t, s.entries, 1)
	assert.Contains(t, s.entries, "new")
}

func TestIdempotencyStore_DefaultTTL(t *testing.T) {
	s := NewIdempotencyStore(0)
	assert.Equal(t, defaultIdempotencyTTL, s.ttl)
}

func TestIdempotencyStore_RememberKeepsFirstMapping(t *testing.T) {
	s := NewIdempotencyStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "k1", "tx-1"))
	require.NoError(t, s.Remember(ctx, "k1", "tx-2"))

	id, ok, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tx-1", id)
}

func TestIdempotencyStore_Reserve(t *testing.T) {
	s := NewIdempotencyStore(time.Minute)
	ctx := context.Background()

	id, reserved, err := s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, id)

	// in flight: taken, no transaction yet, and not visible to Lookup
	id, reserved, err = s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Empty(t, id)
	_, ok, _ := s.Lookup(ctx, "k1")
	assert.False(t, ok)

	require.NoError(t, s.Remember(ctx, "k1", "tx-1"))

	id, reserved, err = s.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "tx-1", id)
}

func TestIdempotencyStore_AbandonedReservationExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewIdempotencyStore(time.Hour)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, reserved, _ := s.Reserve(ctx, "k1")
	require.True(t, reserved)

	now = now.Add(reservationTTL)
	_, reserved, _ = s.Reserve(ctx, "k1")
	assert.True(t, reserved)
}

func TestIdempotencyStore_ConcurrentReserve(t *testing.T) {
	s := NewIdempotencyStore(time.Minute)
	ctx := context.Background()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, reserved, _ := s.Reserve(ctx, "same"); reserved {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
}
