// Package memory holds process-local fallbacks for infrastructure that is
// normally backed by an external service.
package memory

import (
	"context"
	"sync"
	"time"
)

const (
	defaultIdempotencyTTL = time.Hour
	reservationTTL        = 30 * time.Second
)

// idempotencyEntry with an empty transactionID is a reservation whose
// request has not finished yet.
type idempotencyEntry struct {
	transactionID string
	expiresAt     time.Time
}

// IdempotencyStore keeps Idempotency-Key mappings in a map with a TTL. It is
// used when no Redis address is configured.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.live(key, now); ok {
		return e.transactionID, false, nil
	}
	s.evictExpired(now)
	s.entries[key] = idempotencyEntry{expiresAt: now.Add(min(reservationTTL, s.ttl))}
	return "", true, nil
}

func (s *IdempotencyStore) Remember(_ context.Context, key, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.live(key, now); ok && e.transactionID != "" {
		return nil
	}
	s.entries[key] = idempotencyEntry{transactionID: transactionID, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *IdempotencyStore) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key, s.now())
	if !ok || e.transactionID == "" {
		return "", false, nil
	}
	return e.transactionID, true, nil
}

// live must be called with s.mu held. Expired entries are dropped on sight.
func (s *IdempotencyStore) live(key string, now time.Time) (idempotencyEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return idempotencyEntry{}, false
	}
	if !now.Before(e.expiresAt) {
		delete(s.entries, key)
		return idempotencyEntry{}, false
	}
	return e, true
}

// evictExpired must be called with s.mu held.
func (s *IdempotencyStore) evictExpired(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
