package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

type memoryStore struct {
	mu      sync.Mutex
	records []domain.Activity
	err     error
}

func (s *memoryStore) Insert(_ context.Context, a *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *a)
	return s.err
}

func (s *memoryStore) snapshot() []domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Activity(nil), s.records...)
}

func TestDispatcher_DeliversRecords(t *testing.T) {
	store := &memoryStore{}
	d := NewDispatcher(3, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.Activity{Kind: domain.ActivityAccountRegistered, Email: "ana@example.com"})
	d.Record(domain.Activity{Kind: domain.ActivityTransactionAdded, Subject: "tx-1"})

	require.Eventually(t, func() bool { return len(store.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	d.Wait()
}

func TestDispatcher_PreservesOrderPerActor(t *testing.T) {
	store := &memoryStore{}
	d := NewDispatcher(4, store, zerolog.Nop())

	kinds := []domain.ActivityKind{
		domain.ActivityAccountRegistered,
		domain.ActivitySessionEnded,
		domain.ActivitySignInFailed,
		domain.ActivitySignInSucceeded,
	}
	// Enqueue before starting so the drain path delivers everything.
	for _, k := range kinds {
		d.Record(domain.Activity{Kind: k, Email: "ana@example.com"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	got := store.snapshot()
	require.Len(t, got, len(kinds))
	for i, a := range got {
		assert.Equal(t, kinds[i], a.Kind)
	}
}

func TestDispatcher_StoreErrorDoesNotStopWorker(t *testing.T) {
	store := &memoryStore{err: errors.New("boom")}
	d := NewDispatcher(1, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.Activity{Kind: domain.ActivitySignInFailed})
	d.Record(domain.Activity{Kind: domain.ActivitySignInFailed})

	require.Eventually(t, func() bool { return len(store.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	store := &memoryStore{}
	d := NewDispatcher(1, store, zerolog.Nop())

	// No workers running: the buffer fills and the rest is dropped.
	for range channelBuffer + 10 {
		d.Record(domain.Activity{Kind: domain.ActivityTransactionAdded})
	}
	assert.Len(t, d.workers[0], channelBuffer)
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &memoryStore{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &memoryStore{}, zerolog.Nop())
	a := domain.Activity{Kind: domain.ActivitySignInSucceeded, Email: "ana@example.com"}
	b := domain.Activity{Kind: domain.ActivitySessionEnded, Email: "ana@example.com"}
	assert.Equal(t, d.shardIndex(a), d.shardIndex(b))
}
