// Package access defines the address of an account and the capability that the
// host provides to validate the human-readable form of an address.
package access

import "golang.org/x/xerrors"

// ErrAddressFormat is returned when a string is not a well-formed address.
var ErrAddressFormat = xerrors.New("invalid address")

// Address is the validated human-readable address of an account.
type Address string

// String implements fmt.Stringer.
func (a Address) String() string {
	return string(a)
}

// AddressValidator is the host capability that validates addresses. The
// contracts never accept an address that did not go through it, except for the
// sender of a transaction that is authenticated by the host.
type AddressValidator interface {
	// Validate returns the address if the input is well-formed, otherwise an
	// error wrapping ErrAddressFormat.
	Validate(input string) (Address, error)
}
