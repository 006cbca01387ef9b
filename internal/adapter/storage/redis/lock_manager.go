package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mobile-wallet/internal/core/ports"
	"mobile-wallet/pkg/apperror"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const lockPrefix = "lock:"

// releaseScript deletes the lock only while the caller still owns it,
// so a release arriving after ttl reclaim never evicts the new holder.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// LockManager implements ports.LockManager with single-node SET NX
// locks: one random ownership token per acquisition, ttl-bounded,
// released by a compare-and-delete script.
type LockManager struct {
	client *goredis.Client
}

// NewLockManager creates a Redis-backed lock manager.
func NewLockManager(client *goredis.Client) *LockManager {
	return &LockManager{client: client}
}

// Acquire obtains the lock on key or fails immediately with
// ErrLockUnavailable while another holder has it. The returned release
// is idempotent; if it is never called the lock expires after ttl.
func (m *LockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (ports.ReleaseFunc, error) {
	lockKey := lockPrefix + key
	token := uuid.NewString()

	ok, err := m.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock acquire: %w", err)
	}
	if !ok {
		return nil, apperror.ErrLockUnavailable(key)
	}

	var once sync.Once
	var releaseErr error
	release := func(ctx context.Context) error {
		once.Do(func() {
			if err := releaseScript.Run(ctx, m.client, []string{lockKey}, token).Err(); err != nil {
				releaseErr = fmt.Errorf("redis lock release: %w", err)
			}
		})
		return releaseErr
	}
	return release, nil
}
