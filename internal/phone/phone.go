// Package phone maps raw phone numbers to canonical E.164 form and to
// wallet storage keys. The key is a pure function of the number: every
// accepted input form (local, with country code, with leading +) yields
// the same key.
package phone

import (
	"strings"

	"mobile-wallet/pkg/apperror"

	"github.com/nyaruka/phonenumbers"
)

// Deriver derives storage keys from raw phone numbers.
type Deriver struct {
	country    string
	prefix     string
	collection string
}

// NewDeriver creates a Deriver. country is the default region applied
// to national-format input (e.g. "TZ"); prefix and collection form the
// key namespace.
func NewDeriver(country, prefix, collection string) *Deriver {
	return &Deriver{
		country:    country,
		prefix:     prefix,
		collection: collection,
	}
}

// E164 normalizes raw into E.164 format.
func (d *Deriver) E164(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, d.country)
	if err != nil {
		return "", apperror.ErrInvalidPhoneNumber(raw)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", apperror.ErrInvalidPhoneNumber(raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Key derives the wallet storage key: the E.164 number without its
// leading +, namespaced as prefix:collection:number.
func (d *Deriver) Key(raw string) (string, error) {
	e164, err := d.E164(raw)
	if err != nil {
		return "", err
	}
	number := strings.TrimPrefix(e164, "+")
	return strings.Join([]string{d.prefix, d.collection, number}, ":"), nil
}

// Keyspace returns the prefix:collection namespace shared by every key
// this deriver produces.
func (d *Deriver) Keyspace() string {
	return d.prefix + ":" + d.collection
}
