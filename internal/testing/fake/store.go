package fake

import (
	"go.dedis.ch/tally/core/store"
	"go.dedis.ch/tally/core/store/mem"
)

// InMemorySnapshot is a fake implementation of a store snapshot. A configured
// error is returned instead of applying the operation.
//
// - implements store.Snapshot
type InMemorySnapshot struct {
	*mem.Store

	ErrRead   error
	ErrWrite  error
	ErrDelete error
	ErrScan   error

	// Writes counts the successful calls to Set and Delete.
	Writes int
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		Store: mem.NewStore(),
	}
}

// NewBadSnapshot creates a new empty snapshot that will always return an error.
func NewBadSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		Store:     mem.NewStore(),
		ErrRead:   fakeErr,
		ErrWrite:  fakeErr,
		ErrDelete: fakeErr,
		ErrScan:   fakeErr,
	}
}

// Get implements store.Snapshot.
func (snap *InMemorySnapshot) Get(key []byte) ([]byte, error) {
	if snap.ErrRead != nil {
		return nil, snap.ErrRead
	}

	return snap.Store.Get(key)
}

// Set implements store.Snapshot.
func (snap *InMemorySnapshot) Set(key, value []byte) error {
	if snap.ErrWrite != nil {
		return snap.ErrWrite
	}

	snap.Writes++

	return snap.Store.Set(key, value)
}

// Delete implements store.Snapshot.
func (snap *InMemorySnapshot) Delete(key []byte) error {
	if snap.ErrDelete != nil {
		return snap.ErrDelete
	}

	snap.Writes++

	return snap.Store.Delete(key)
}

// Scan implements store.Snapshot.
func (snap *InMemorySnapshot) Scan(prefix, from []byte, fn func(k, v []byte) error) error {
	if snap.ErrScan != nil {
		return snap.ErrScan
	}

	return snap.Store.Scan(prefix, from, fn)
}

// Stage implements store.Ledger. The function is applied on the snapshot
// itself and no write is rolled back.
func (snap *InMemorySnapshot) Stage(fn func(store.Snapshot) error) error {
	return fn(snap)
}

// View implements store.Ledger.
func (snap *InMemorySnapshot) View(fn func(store.Reader) error) error {
	return fn(snap)
}
