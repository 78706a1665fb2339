// Package store defines the primitives of a simple ordered key/value storage.
//
// A contract only ever sees a Snapshot. The host runtime owns a Ledger and
// hands a staged snapshot to each transition so that the writes are either all
// committed or all discarded.
package store

import "golang.org/x/xerrors"

// ErrStop can be returned by a scan callback to end the iteration early
// without failing the scan.
var ErrStop = xerrors.New("stop iteration")

// Readable is the interface for a readable store.
type Readable interface {
	// Get returns the value of the key, or nil if the key does not exist.
	Get(key []byte) ([]byte, error)
}

// Writable is the interface for a writable store.
type Writable interface {
	Set(key []byte, value []byte) error

	Delete(key []byte) error
}

// Iterable is the interface for a store that can be walked in key order.
type Iterable interface {
	// Scan calls fn for every key that starts with prefix and is greater or
	// equal to from, in ascending order. A nil from starts at the prefix. The
	// iteration stops at the first error returned by fn; ErrStop is not
	// reported back.
	Scan(prefix, from []byte, fn func(key, value []byte) error) error
}

// Reader is a store that can be read and walked.
type Reader interface {
	Readable
	Iterable
}

// Snapshot is a state of the store that can be read and written
// independently. A write is applied only to the snapshot reference.
type Snapshot interface {
	Reader
	Writable
}

// Ledger is the persistent store of the host runtime.
type Ledger interface {
	// View calls fn with a read-only view of the store.
	View(fn func(Reader) error) error

	// Stage calls fn with a snapshot of the store. The writes of the snapshot
	// are committed only if fn returns nil, otherwise they are discarded.
	Stage(fn func(Snapshot) error) error
}
