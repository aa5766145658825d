package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = time.Hour
	reservationTTL        = 30 * time.Second
	// pendingMarker holds a reserved key until its transaction exists.
	pendingMarker = "pending"
)

// reserveScript returns the current value of KEYS[1], or claims it with
// ARGV[1] for ARGV[2] milliseconds and returns nil.
var reserveScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v then
	return v
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return false
`)

// rememberScript writes ARGV[2] unless KEYS[1] already maps to a value other
// than the pending marker ARGV[1].
var rememberScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v and v ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// IdempotencyStore maps Idempotency-Key headers to the transaction they
// created. Key format: idem:tx:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client; entries expire after ttl.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key atomically. A taken key reports the stored transaction
// ID, or "" while the first request is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	ttl := min(reservationTTL, s.ttl)
	v, err := reserveScript.Run(ctx, s.client, []string{s.key(key)}, pendingMarker, ttl.Milliseconds()).Text()
	if errors.Is(err, redis.Nil) {
		return "", true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if v == pendingMarker {
		return "", false, nil
	}
	return v, false, nil
}

// Remember records transactionID under key. An existing mapping wins.
func (s *IdempotencyStore) Remember(ctx context.Context, key, transactionID string) error {
	err := rememberScript.Run(ctx, s.client, []string{s.key(key)}, pendingMarker, transactionID, s.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Lookup returns the transaction ID recorded for key. Pending reservations
// count as a miss.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) || id == pendingMarker {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:tx:" + key
}
