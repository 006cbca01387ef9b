// Package notify holds pin delivery adapters. SMS transport belongs to
// the surrounding layers; the core only needs something satisfying
// ports.PinNotifier.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier records that a pin was issued without delivering it
// anywhere. The pin itself is never logged.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a log-only pin notifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// SendPin logs the issuance and always succeeds.
func (n *LogNotifier) SendPin(ctx context.Context, phoneNumber, pin string) error {
	n.log.Info().
		Str("phone_number", phoneNumber).
		Msg("wallet pin issued")
	return nil
}
