package service

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	pinLength     = 8
	shortIDLength = 9
	// URL-safe short-id alphabet; the separator characters are stripped
	// from the final pin so it stays purely alphanumeric.
	shortIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"
)

var pinSeparators = strings.NewReplacer("-", "", "_", "")

// ShortIDPinGenerator implements ports.PinGenerator: it concatenates
// random short ids, strips separator characters, and uppercases the
// first 8 characters. Randomness comes from crypto/rand, so pins are
// unpredictable and do not repeat in rapid succession.
type ShortIDPinGenerator struct{}

// NewShortIDPinGenerator creates a pin generator.
func NewShortIDPinGenerator() *ShortIDPinGenerator {
	return &ShortIDPinGenerator{}
}

// Generate returns a fresh 8-character uppercase alphanumeric pin.
func (g *ShortIDPinGenerator) Generate() (string, error) {
	var pin strings.Builder
	for pin.Len() < pinLength {
		id, err := shortID()
		if err != nil {
			return "", err
		}
		pin.WriteString(pinSeparators.Replace(id))
	}
	return strings.ToUpper(pin.String()[:pinLength]), nil
}

func shortID() (string, error) {
	buf := make([]byte, shortIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, shortIDLength)
	for i, b := range buf {
		out[i] = shortIDAlphabet[int(b)%len(shortIDAlphabet)]
	}
	return string(out), nil
}
