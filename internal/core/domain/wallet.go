package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Redis hash field names for a persisted wallet record.
// BalanceField and UpdatedAtField are exported because the store mutates
// them directly through the atomic increment path.
const (
	idField          = "_id"
	phoneNumberField = "phoneNumber"
	pinField         = "pin"
	BalanceField     = "balance"
	createdAtField   = "createdAt"
	UpdatedAtField   = "updatedAt"
	verifiedAtField  = "verifiedAt"
	activatedAtField = "activatedAt"
)

// TimeLayout is the encoding used for wallet timestamps in the store.
const TimeLayout = time.RFC3339Nano

// Wallet is a phone-number-addressed monetary wallet. One wallet exists
// per canonical phone number; ID is derived from the number and never
// changes.
type Wallet struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	Pin         string     `json:"-"` // delivered out-of-band, never exposed
	Balance     float64    `json:"balance"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
}

// IsVerified reports whether the owner has confirmed the wallet pin.
func (w *Wallet) IsVerified() bool {
	return w.VerifiedAt != nil
}

// IsActivated reports whether the wallet has been activated.
func (w *Wallet) IsActivated() bool {
	return w.ActivatedAt != nil
}

// IsClaimed reports whether at least one lifecycle transition has fired.
// A claimed wallet can never be re-created; an unclaimed record is an
// incomplete prior attempt and may be overwritten.
func (w *Wallet) IsClaimed() bool {
	return w.IsVerified() || w.IsActivated()
}

// Fields encodes the wallet as a Redis hash. Optional timestamps are
// omitted entirely while unset so their presence doubles as the flag.
func (w *Wallet) Fields() map[string]any {
	fields := map[string]any{
		idField:          w.ID,
		phoneNumberField: w.PhoneNumber,
		pinField:         w.Pin,
		BalanceField:     strconv.FormatFloat(w.Balance, 'f', -1, 64),
		createdAtField:   w.CreatedAt.UTC().Format(TimeLayout),
		UpdatedAtField:   w.UpdatedAt.UTC().Format(TimeLayout),
	}
	if w.VerifiedAt != nil {
		fields[verifiedAtField] = w.VerifiedAt.UTC().Format(TimeLayout)
	}
	if w.ActivatedAt != nil {
		fields[activatedAtField] = w.ActivatedAt.UTC().Format(TimeLayout)
	}
	return fields
}

// WalletFromFields decodes a Redis hash into a wallet. An empty hash
// decodes to (nil, nil): Redis returns no fields for a missing key, so
// emptiness is the typed absence marker.
func WalletFromFields(fields map[string]string) (*Wallet, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	w := &Wallet{
		ID:          fields[idField],
		PhoneNumber: fields[phoneNumberField],
		Pin:         fields[pinField],
	}

	if raw, ok := fields[BalanceField]; ok && raw != "" {
		balance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse wallet balance %q: %w", raw, err)
		}
		w.Balance = balance
	}

	var err error
	if w.CreatedAt, err = parseTime(createdAtField, fields[createdAtField]); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(UpdatedAtField, fields[UpdatedAtField]); err != nil {
		return nil, err
	}
	if w.VerifiedAt, err = parseOptionalTime(verifiedAtField, fields[verifiedAtField]); err != nil {
		return nil, err
	}
	if w.ActivatedAt, err = parseOptionalTime(activatedAtField, fields[activatedAtField]); err != nil {
		return nil, err
	}

	return w, nil
}

func parseTime(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse wallet %s %q: %w", field, raw, err)
	}
	return t, nil
}

func parseOptionalTime(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
