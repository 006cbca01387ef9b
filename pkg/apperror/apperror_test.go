package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_022", "Insufficient wallet balance", http.StatusPaymentRequired),
			expected: "[WAL_022] Insufficient wallet balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] Internal server error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("redis: connection pool exhausted")
	appErr := InternalError(inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("WAL_021", "test", http.StatusNotFound).Unwrap())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "WAL_022", CodeOf(ErrBalanceOverflow()))
	assert.Equal(t, "WAL_022", CodeOf(fmt.Errorf("deposit: %w", ErrBalanceOverflow())))
	assert.Equal(t, "", CodeOf(fmt.Errorf("plain error")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidPhoneNumber", ErrInvalidPhoneNumber("12"), "WAL_001", 400},
		{"InvalidVerificationDetails", ErrInvalidVerificationDetails(), "WAL_002", 400},
		{"InvalidActivationDetails", ErrInvalidActivationDetails(), "WAL_003", 400},
		{"InvalidDeposit", ErrInvalidDeposit(), "WAL_004", 400},
		{"InvalidWithdraw", ErrInvalidWithdraw(), "WAL_005", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestStateConflictErrors(t *testing.T) {
	exists := ErrWalletAlreadyExists("+255714999999")
	assert.Equal(t, "WAL_011", exists.Code)
	assert.Equal(t, http.StatusConflict, exists.HTTPStatus)
	assert.Contains(t, exists.Message, "+255714999999")

	assert.Equal(t, "WAL_012", ErrWalletAlreadyVerified().Code)
	assert.Equal(t, "WAL_013", ErrWalletAlreadyActivated().Code)
}

func TestBusinessErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrWalletNotFound().HTTPStatus)
	assert.Equal(t, http.StatusPaymentRequired, ErrBalanceOverflow().HTTPStatus)
}

func TestLockUnavailable(t *testing.T) {
	err := ErrLockUnavailable("paywell:wallets:255714999999")
	assert.Equal(t, "LCK_001", err.Code)
	assert.Equal(t, http.StatusLocked, err.HTTPStatus)
	assert.Contains(t, err.Message, "paywell:wallets:255714999999")
}
