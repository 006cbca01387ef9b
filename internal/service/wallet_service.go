package service

import (
	"context"
	"fmt"
	"time"

	"mobile-wallet/internal/core/domain"
	"mobile-wallet/internal/core/ports"
	"mobile-wallet/internal/phone"
	"mobile-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

// DefaultLockTTL bounds how long a guarded mutation may hold a wallet
// lock before the backend reclaims it.
const DefaultLockTTL = 10 * time.Second

// releaseTimeout bounds the lock release call. Release runs on a fresh
// context so a canceled caller still frees the lock instead of leaving
// it to expire.
const releaseTimeout = 5 * time.Second

// WalletServiceImpl implements ports.WalletService: the lifecycle state
// machine (create, verify, activate) and the lock-guarded deposit and
// withdraw mutations.
type WalletServiceImpl struct {
	repo     ports.WalletRepository
	locks    ports.LockManager
	deriver  *phone.Deriver
	pins     ports.PinGenerator
	notifier ports.PinNotifier
	lockTTL  time.Duration
	log      zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl. A non-positive
// lockTTL falls back to DefaultLockTTL.
func NewWalletService(
	repo ports.WalletRepository,
	locks ports.LockManager,
	deriver *phone.Deriver,
	pins ports.PinGenerator,
	notifier ports.PinNotifier,
	lockTTL time.Duration,
	log zerolog.Logger,
) *WalletServiceImpl {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &WalletServiceImpl{
		repo:     repo,
		locks:    locks,
		deriver:  deriver,
		pins:     pins,
		notifier: notifier,
		lockTTL:  lockTTL,
		log:      log,
	}
}

// Create provisions a wallet for phoneNumber. A claimed wallet (already
// verified or activated) blocks re-creation; an unclaimed leftover from
// an incomplete prior attempt is overwritten with a fresh record.
func (s *WalletServiceImpl) Create(ctx context.Context, phoneNumber string) (*domain.Wallet, error) {
	key, err := s.deriver.Key(phoneNumber)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if existing != nil && existing.IsClaimed() {
		return nil, apperror.ErrWalletAlreadyExists(phoneNumber)
	}

	e164, err := s.deriver.E164(phoneNumber)
	if err != nil {
		return nil, err
	}
	pin, err := s.pins.Generate()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate pin: %w", err))
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:          key,
		PhoneNumber: e164,
		Pin:         pin,
		Balance:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}

	// Delivery failure is not fatal; the owner can request a resend.
	if err := s.notifier.SendPin(ctx, wallet.PhoneNumber, wallet.Pin); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", wallet.ID).Msg("pin delivery failed")
	}

	s.log.Info().Str("wallet_id", wallet.ID).Msg("wallet created")
	return wallet, nil
}

// Verify performs the one-shot verify transition. An absent wallet is
// auto-provisioned. A wrong pin is rejected outright — it never
// re-provisions the wallet.
func (s *WalletServiceImpl) Verify(ctx context.Context, in ports.VerifyInput) (*domain.Wallet, error) {
	if in.PhoneNumber == "" || in.Pin == "" {
		return nil, apperror.ErrInvalidVerificationDetails()
	}

	wallet, err := s.fetch(ctx, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return s.Create(ctx, in.PhoneNumber)
	}
	if wallet.Pin != in.Pin {
		return nil, apperror.ErrInvalidVerificationDetails()
	}
	if wallet.IsVerified() {
		return nil, apperror.ErrWalletAlreadyVerified()
	}

	now := time.Now().UTC()
	wallet.VerifiedAt = &now
	wallet.UpdatedAt = now
	if err := s.repo.Save(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}

	s.log.Info().Str("wallet_id", wallet.ID).Msg("wallet verified")
	return wallet, nil
}

// Activate performs the one-shot activate transition; it mirrors Verify
// without the pin check. An absent wallet is auto-provisioned.
func (s *WalletServiceImpl) Activate(ctx context.Context, in ports.ActivateInput) (*domain.Wallet, error) {
	if in.PhoneNumber == "" {
		return nil, apperror.ErrInvalidActivationDetails()
	}

	wallet, err := s.fetch(ctx, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return s.Create(ctx, in.PhoneNumber)
	}
	if wallet.IsActivated() {
		return nil, apperror.ErrWalletAlreadyActivated()
	}

	now := time.Now().UTC()
	wallet.ActivatedAt = &now
	wallet.UpdatedAt = now
	if err := s.repo.Save(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}

	s.log.Info().Str("wallet_id", wallet.ID).Msg("wallet activated")
	return wallet, nil
}

// Deposit adds in.Amount to the wallet balance under the per-wallet
// lock and returns the updated record.
func (s *WalletServiceImpl) Deposit(ctx context.Context, in ports.DepositInput) (*domain.Wallet, error) {
	if in.PhoneNumber == "" || in.Amount < 0 {
		return nil, apperror.ErrInvalidDeposit()
	}

	wallet, err := s.fetch(ctx, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	release, err := s.locks.Acquire(ctx, wallet.ID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer s.release(release)

	if err := s.repo.IncrementBalance(ctx, wallet.ID, in.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment balance: %w", err))
	}

	return s.reload(ctx, wallet.ID)
}

// Withdraw subtracts in.Amount from the wallet balance under the
// per-wallet lock. Sufficiency is checked twice: once before acquiring
// the lock to fail fast, and again on a fresh read under the lock so
// two concurrent withdrawals cannot both pass against a stale balance.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, in ports.WithdrawInput) (*domain.Wallet, error) {
	if in.PhoneNumber == "" || in.Amount < 0 {
		return nil, apperror.ErrInvalidWithdraw()
	}

	wallet, err := s.fetch(ctx, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	if wallet.Balance-in.Amount < 0 {
		return nil, apperror.ErrBalanceOverflow()
	}

	release, err := s.locks.Acquire(ctx, wallet.ID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer s.release(release)

	current, err := s.repo.Get(ctx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if current == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	if current.Balance-in.Amount < 0 {
		return nil, apperror.ErrBalanceOverflow()
	}

	if err := s.repo.IncrementBalance(ctx, wallet.ID, -in.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment balance: %w", err))
	}

	return s.reload(ctx, wallet.ID)
}

// Get returns the wallet for phoneNumber or ErrWalletNotFound.
func (s *WalletServiceImpl) Get(ctx context.Context, phoneNumber string) (*domain.Wallet, error) {
	wallet, err := s.fetch(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// GetMany returns the wallets for phoneNumbers in order; absent numbers
// yield nil entries.
func (s *WalletServiceImpl) GetMany(ctx context.Context, phoneNumbers []string) ([]*domain.Wallet, error) {
	keys := make([]string, len(phoneNumbers))
	for i, number := range phoneNumbers {
		key, err := s.deriver.Key(number)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}

	wallets, err := s.repo.GetMany(ctx, keys)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallets: %w", err))
	}
	return wallets, nil
}

// Search runs a free-text query over persisted wallets.
func (s *WalletServiceImpl) Search(ctx context.Context, query string) ([]*domain.Wallet, error) {
	wallets, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("search wallets: %w", err))
	}
	return wallets, nil
}

func (s *WalletServiceImpl) fetch(ctx context.Context, phoneNumber string) (*domain.Wallet, error) {
	key, err := s.deriver.Key(phoneNumber)
	if err != nil {
		return nil, err
	}
	wallet, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	return wallet, nil
}

func (s *WalletServiceImpl) reload(ctx context.Context, key string) (*domain.Wallet, error) {
	wallet, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

func (s *WalletServiceImpl) release(release ports.ReleaseFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := release(ctx); err != nil {
		s.log.Warn().Err(err).Msg("lock release failed")
	}
}
