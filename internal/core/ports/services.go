package ports

import (
	"context"

	"mobile-wallet/internal/core/domain"
)

// WalletService is the wallet lifecycle engine: creation, one-shot
// verify/activate transitions, and lock-guarded balance mutations.
type WalletService interface {
	Create(ctx context.Context, phoneNumber string) (*domain.Wallet, error)
	Verify(ctx context.Context, in VerifyInput) (*domain.Wallet, error)
	Activate(ctx context.Context, in ActivateInput) (*domain.Wallet, error)
	Deposit(ctx context.Context, in DepositInput) (*domain.Wallet, error)
	Withdraw(ctx context.Context, in WithdrawInput) (*domain.Wallet, error)
	Get(ctx context.Context, phoneNumber string) (*domain.Wallet, error)
	GetMany(ctx context.Context, phoneNumbers []string) ([]*domain.Wallet, error)
	Search(ctx context.Context, query string) ([]*domain.Wallet, error)
}

// VerifyInput holds input for the verify transition.
type VerifyInput struct {
	PhoneNumber string
	Pin         string
}

// ActivateInput holds input for the activate transition.
type ActivateInput struct {
	PhoneNumber string
}

// DepositInput holds input for a guarded deposit.
type DepositInput struct {
	PhoneNumber string
	Amount      float64
}

// WithdrawInput holds input for a guarded withdrawal.
type WithdrawInput struct {
	PhoneNumber string
	Amount      float64
}

// PinGenerator produces wallet verification pins: 8 uppercase
// alphanumeric characters, unpredictable, never repeating in rapid
// succession within a process.
type PinGenerator interface {
	Generate() (string, error)
}

// PinNotifier delivers a freshly issued pin to the wallet owner
// out-of-band. Delivery failure is not fatal to wallet creation.
type PinNotifier interface {
	SendPin(ctx context.Context, phoneNumber, pin string) error
}
