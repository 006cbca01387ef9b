package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mobile-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const scanBatch = 100

// WalletStore implements ports.WalletRepository on Redis hashes. Each
// wallet is one hash keyed by its derived storage key; the balance
// field is mutated through HINCRBYFLOAT so the adjustment is
// indivisible at the backend even without the application-level lock.
type WalletStore struct {
	client   *goredis.Client
	keyspace string // prefix:collection namespace the store scans over
}

// NewWalletStore creates a Redis-backed wallet store scoped to the
// given keyspace (the Deriver's prefix:collection namespace).
func NewWalletStore(client *goredis.Client, keyspace string) *WalletStore {
	return &WalletStore{
		client:   client,
		keyspace: keyspace,
	}
}

// Get reads one wallet record. Returns (nil, nil) when the key has no
// record.
func (s *WalletStore) Get(ctx context.Context, key string) (*domain.Wallet, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis wallet get: %w", err)
	}
	return domain.WalletFromFields(fields)
}

// GetMany reads several records in one pipelined round trip. The result
// preserves the order of keys; absent keys yield nil entries.
func (s *WalletStore) GetMany(ctx context.Context, keys []string) ([]*domain.Wallet, error) {
	pipe := s.client.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis wallet multi get: %w", err)
	}

	wallets := make([]*domain.Wallet, len(keys))
	for i, cmd := range cmds {
		wallet, err := domain.WalletFromFields(cmd.Val())
		if err != nil {
			return nil, err
		}
		wallets[i] = wallet
	}
	return wallets, nil
}

// Save upserts the full record under wallet.ID.
func (s *WalletStore) Save(ctx context.Context, wallet *domain.Wallet) error {
	if err := s.client.HSet(ctx, wallet.ID, wallet.Fields()).Err(); err != nil {
		return fmt.Errorf("redis wallet save: %w", err)
	}
	return nil
}

// IncrementBalance atomically adds delta to the stored balance and
// refreshes the update timestamp. HINCRBYFLOAT is a single indivisible
// command, so the numeric adjustment cannot be torn even if the
// application-level lock has expired mid-operation.
func (s *WalletStore) IncrementBalance(ctx context.Context, key string, delta float64) error {
	now := time.Now().UTC().Format(domain.TimeLayout)

	pipe := s.client.TxPipeline()
	pipe.HIncrByFloat(ctx, key, domain.BalanceField, delta)
	pipe.HSet(ctx, key, domain.UpdatedAtField, now)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis wallet increment: %w", err)
	}
	return nil
}

// Search runs a free-text query over the wallet collection: it scans
// the keyspace and matches the query against phone number and id.
// An empty query returns every wallet in the collection.
func (s *WalletStore) Search(ctx context.Context, query string) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet

	iter := s.client.Scan(ctx, 0, s.keyspace+":*", scanBatch).Iterator()
	for iter.Next(ctx) {
		wallet, err := s.Get(ctx, iter.Val())
		if err != nil {
			return nil, err
		}
		if wallet == nil {
			continue
		}
		if query == "" ||
			strings.Contains(wallet.PhoneNumber, query) ||
			strings.Contains(wallet.ID, query) {
			wallets = append(wallets, wallet)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis wallet search: %w", err)
	}
	return wallets, nil
}
