// Package app wires the wallet core together: configuration, Redis
// client, stores, lock manager, and the lifecycle engine. Surrounding
// layers (HTTP, CLI, messaging) embed an App rather than assembling the
// pieces themselves.
package app

import (
	"context"
	"fmt"

	"mobile-wallet/config"
	"mobile-wallet/internal/adapter/notify"
	redisStorage "mobile-wallet/internal/adapter/storage/redis"
	"mobile-wallet/internal/core/ports"
	"mobile-wallet/internal/phone"
	"mobile-wallet/internal/service"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App owns the constructed wallet core and its shared clients.
type App struct {
	Wallets ports.WalletService
	Locks   ports.LockManager
	Deriver *phone.Deriver
	Health  []ports.HealthChecker

	log   zerolog.Logger
	redis *goredis.Client
}

// New builds the wallet core from cfg. The Redis connection is
// ping-verified before anything else is constructed.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	client, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("connecting redis: %w", err)
	}

	deriver := phone.NewDeriver(cfg.Wallet.Country, cfg.Wallet.KeyPrefix, cfg.Wallet.Collection)
	store := redisStorage.NewWalletStore(client, deriver.Keyspace())
	locks := redisStorage.NewLockManager(client)
	pins := service.NewShortIDPinGenerator()
	notifier := notify.NewLogNotifier(log)

	wallets := service.NewWalletService(store, locks, deriver, pins, notifier, cfg.Wallet.LockTTL, log)

	return &App{
		Wallets: wallets,
		Locks:   locks,
		Deriver: deriver,
		Health:  []ports.HealthChecker{redisStorage.NewHealthCheck(client)},
		log:     log,
		redis:   client,
	}, nil
}

// Close releases the shared clients.
func (a *App) Close() error {
	if err := a.redis.Close(); err != nil {
		return fmt.Errorf("closing redis: %w", err)
	}
	return nil
}
