package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to caller-facing responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the error code carried by err, or "" when err is not
// an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Wallet input validation (WAL 00x) ----

func ErrInvalidPhoneNumber(raw string) *AppError {
	return New("WAL_001", fmt.Sprintf("Invalid phone number %s", raw), http.StatusBadRequest)
}

func ErrInvalidVerificationDetails() *AppError {
	return New("WAL_002", "Invalid wallet verification details", http.StatusBadRequest)
}

func ErrInvalidActivationDetails() *AppError {
	return New("WAL_003", "Invalid wallet activation details", http.StatusBadRequest)
}

func ErrInvalidDeposit() *AppError {
	return New("WAL_004", "Invalid wallet deposit", http.StatusBadRequest)
}

func ErrInvalidWithdraw() *AppError {
	return New("WAL_005", "Invalid wallet withdraw", http.StatusBadRequest)
}

// ---- Wallet state conflicts (WAL 01x) ----

func ErrWalletAlreadyExists(phoneNumber string) *AppError {
	return New("WAL_011", fmt.Sprintf("Wallet already exists for %s", phoneNumber), http.StatusConflict)
}

func ErrWalletAlreadyVerified() *AppError {
	return New("WAL_012", "Wallet already verified", http.StatusConflict)
}

func ErrWalletAlreadyActivated() *AppError {
	return New("WAL_013", "Wallet already activated", http.StatusConflict)
}

// ---- Wallet business rules (WAL 02x) ----

func ErrWalletNotFound() *AppError {
	return New("WAL_021", "Wallet not found", http.StatusNotFound)
}

func ErrBalanceOverflow() *AppError {
	return New("WAL_022", "Insufficient wallet balance", http.StatusPaymentRequired)
}

// ---- Locking (LCK) ----

// ErrLockUnavailable signals transient contention; callers may retry
// with backoff.
func ErrLockUnavailable(key string) *AppError {
	return New("LCK_001", fmt.Sprintf("Wallet %s is locked by another operation", key), http.StatusLocked)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps a backend/transport failure unchanged; this is
// the only class for which blind retry is reasonable.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
