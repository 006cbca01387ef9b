package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pinPattern = regexp.MustCompile(`^[0-9A-Z]{8}$`)

func TestShortIDPinGenerator_Shape(t *testing.T) {
	g := NewShortIDPinGenerator()

	for i := 0; i < 100; i++ {
		pin, err := g.Generate()
		require.NoError(t, err)
		assert.Regexp(t, pinPattern, pin, "pin must be 8 uppercase alphanumerics")
	}
}

func TestShortIDPinGenerator_NoRapidRepeats(t *testing.T) {
	g := NewShortIDPinGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		pin, err := g.Generate()
		require.NoError(t, err)
		_, dup := seen[pin]
		require.False(t, dup, "pin %q repeated within a single process", pin)
		seen[pin] = struct{}{}
	}
}
