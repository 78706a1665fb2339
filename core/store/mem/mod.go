// Package mem implements an in-memory ledger ordered by key.
//
// The ledger keeps the committed state in a red-black tree. A staged
// transition writes to a child layer that shadows the parent, and the layer is
// merged into the parent only when the transition succeeds.
package mem

import (
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"go.dedis.ch/tally/core/store"
	"golang.org/x/xerrors"
)

// tombstone marks a key deleted by a staged layer.
type tombstone struct{}

// Store is an in-memory implementation of a ledger. It can also be used
// directly as a snapshot, in which case the writes are immediate.
//
// - implements store.Ledger
// - implements store.Snapshot
type Store struct {
	sync.RWMutex

	tree *treemap.Map
}

// NewStore creates a new empty store.
func NewStore() *Store {
	return &Store{
		tree: treemap.NewWithStringComparator(),
	}
}

// Get implements store.Readable.
func (s *Store) Get(key []byte) ([]byte, error) {
	value, found := s.tree.Get(string(key))
	if !found {
		return nil, nil
	}

	return value.([]byte), nil
}

// Set implements store.Writable.
func (s *Store) Set(key, value []byte) error {
	s.tree.Put(string(key), append([]byte{}, value...))

	return nil
}

// Delete implements store.Writable.
func (s *Store) Delete(key []byte) error {
	s.tree.Remove(string(key))

	return nil
}

// Scan implements store.Iterable.
func (s *Store) Scan(prefix, from []byte, fn func(k, v []byte) error) error {
	return scan(s.tree, nil, prefix, from, fn)
}

// Len returns the number of keys in the store.
func (s *Store) Len() int {
	return s.tree.Size()
}

// View implements store.Ledger.
func (s *Store) View(fn func(store.Reader) error) error {
	s.RLock()
	defer s.RUnlock()

	return fn(s)
}

// Stage implements store.Ledger. The writes are applied to the store only if
// the function returns nil.
func (s *Store) Stage(fn func(store.Snapshot) error) error {
	s.Lock()
	defer s.Unlock()

	layer := &layer{
		parent: s,
		writes: treemap.NewWithStringComparator(),
	}

	err := fn(layer)
	if err != nil {
		return err
	}

	it := layer.writes.Iterator()
	for it.Next() {
		switch value := it.Value().(type) {
		case tombstone:
			s.tree.Remove(it.Key())
		case []byte:
			s.tree.Put(it.Key(), value)
		}
	}

	return nil
}

// layer is the snapshot of a staged transition. It records the writes and
// falls back to the parent when reading a key it never wrote.
//
// - implements store.Snapshot
type layer struct {
	parent *Store
	writes *treemap.Map
}

// Get implements store.Readable.
func (l *layer) Get(key []byte) ([]byte, error) {
	value, found := l.writes.Get(string(key))
	if !found {
		return l.parent.Get(key)
	}

	switch v := value.(type) {
	case []byte:
		return v, nil
	default:
		return nil, nil
	}
}

// Set implements store.Writable.
func (l *layer) Set(key, value []byte) error {
	l.writes.Put(string(key), append([]byte{}, value...))

	return nil
}

// Delete implements store.Writable.
func (l *layer) Delete(key []byte) error {
	l.writes.Put(string(key), tombstone{})

	return nil
}

// Scan implements store.Iterable. It merges the keys of the layer with the
// ones of the parent.
func (l *layer) Scan(prefix, from []byte, fn func(k, v []byte) error) error {
	return scan(l.parent.tree, l.writes, prefix, from, fn)
}

// scan walks the keys of the base tree in ascending order, shadowed by the
// entries of the overlay when it is not nil.
func scan(base, overlay *treemap.Map, prefix, from []byte, fn func(k, v []byte) error) error {
	pfx := string(prefix)

	cursor := pfx
	if string(from) > cursor {
		cursor = string(from)
	}

	for {
		key, value, found := ceiling(base, cursor)

		if overlay != nil {
			okey, ovalue, ofound := ceiling(overlay, cursor)
			if ofound && (!found || okey <= key) {
				key, value, found = okey, ovalue, true
			}
		}

		if !found || !strings.HasPrefix(key, pfx) {
			return nil
		}

		// The smallest string strictly greater than key.
		cursor = key + "\x00"

		data, ok := value.([]byte)
		if !ok {
			continue
		}

		err := fn([]byte(key), data)
		if xerrors.Is(err, store.ErrStop) {
			return nil
		}
		if err != nil {
			return xerrors.Errorf("callback failed: %w", err)
		}
	}
}

func ceiling(tree *treemap.Map, key string) (string, interface{}, bool) {
	k, v := tree.Ceiling(key)
	if k == nil {
		return "", nil, false
	}

	return k.(string), v, true
}
