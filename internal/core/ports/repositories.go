package ports

import (
	"context"
	"time"

	"mobile-wallet/internal/core/domain"
)

// WalletRepository defines persistence operations for wallet records.
// Reads return (nil, nil) when no record exists for a key — absence is
// a value, not an error.
type WalletRepository interface {
	Get(ctx context.Context, key string) (*domain.Wallet, error)
	// GetMany reads several records in one round trip. The result has
	// the same length and order as keys; absent keys yield nil entries.
	GetMany(ctx context.Context, keys []string) ([]*domain.Wallet, error)
	// Save upserts the full record. Stamping UpdatedAt is the caller's
	// responsibility.
	Save(ctx context.Context, wallet *domain.Wallet) error
	// IncrementBalance atomically adds delta (positive or negative) to
	// the stored balance. The increment is indivisible at the backend
	// level, independent of any application-level lock.
	IncrementBalance(ctx context.Context, key string, delta float64) error
	// Search runs a free-text query over persisted wallet records.
	Search(ctx context.Context, query string) ([]*domain.Wallet, error)
}

// ReleaseFunc releases a held lock. It is idempotent and safe to call
// more than once; after the lock's ttl it is a no-op.
type ReleaseFunc func(ctx context.Context) error

// LockManager provides per-key mutual exclusion shared by every process
// using the same backing store.
type LockManager interface {
	// Acquire obtains an exclusive time-bounded lock on key or fails
	// immediately with ErrLockUnavailable — no blocking, no retry. If
	// the returned ReleaseFunc is never called the lock self-expires
	// after ttl. The ttl is never extended automatically.
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}
