package ports

import "context"

// IdempotencyStore remembers which transaction a client-supplied
// Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve claims key for a new request. When the key is already taken it
	// reports reserved=false together with the transaction ID stored under
	// it, which is empty while the claiming request is still in flight.
	Reserve(ctx context.Context, key string) (existingID string, reserved bool, err error)
	// Remember fills a reservation with the transaction it produced. A key
	// that already maps to a transaction keeps its first mapping.
	Remember(ctx context.Context, key, transactionID string) error
	// Lookup returns the transaction ID stored under key, if any.
	Lookup(ctx context.Context, key string) (string, bool, error)
}
