// Package fake provides fake implementations for interfaces commonly used in
// the repository.
// The implementations offer configuration to return errors when it is needed by
// the unit test.
package fake

import (
	"hash"

	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the fake error.
func GetError() error {
	return fakeErr
}

// Err returns the message of the fake error wrapped by the given message.
func Err(msg string) string {
	return msg + ": " + fakeErr.Error()
}

// Hash is a fake implementation of hash.Hash that fails to write.
//
// - implements hash.Hash
type Hash struct {
	hash.Hash

	Call int
}

// NewBadHash returns a factory of hashes that fail at the first write.
func NewBadHash() func() hash.Hash {
	return func() hash.Hash {
		return &Hash{}
	}
}

// Write implements io.Writer. It always returns an error.
func (h *Hash) Write([]byte) (int, error) {
	h.Call++
	return 0, fakeErr
}
