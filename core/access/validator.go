package access

import (
	"github.com/asaskevich/govalidator"
	"golang.org/x/xerrors"
)

const (
	// MinAddressLength is the minimal length of an address.
	MinAddressLength = 3

	// MaxAddressLength is the maximal length of an address, which is the one
	// of a bech32 string.
	MaxAddressLength = 90
)

// Validator is the default address validator. It accepts lowercase
// alphanumeric strings of a bounded length, which is the normalized form of
// the addresses used by the ledger.
//
// - implements access.AddressValidator
type Validator struct{}

// NewValidator returns a new default address validator.
func NewValidator() Validator {
	return Validator{}
}

// Validate implements access.AddressValidator.
func (Validator) Validate(input string) (Address, error) {
	if len(input) < MinAddressLength {
		return "", xerrors.Errorf("'%s' is too short: %w", input, ErrAddressFormat)
	}

	if len(input) > MaxAddressLength {
		return "", xerrors.Errorf("'%s' is too long: %w", input, ErrAddressFormat)
	}

	if !govalidator.IsAlphanumeric(input) {
		return "", xerrors.Errorf("'%s' is not alphanumeric: %w", input, ErrAddressFormat)
	}

	if !govalidator.IsLowerCase(input) {
		return "", xerrors.Errorf("'%s' is not normalized: %w", input, ErrAddressFormat)
	}

	return Address(input), nil
}
