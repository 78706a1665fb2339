package kv

import (
	"go.dedis.ch/tally/core/store"
	"golang.org/x/xerrors"
)

// Ledger is a store ledger persisted in a single bucket of a database. Each
// staged transition runs inside one database update so that the writes are
// discarded by the database itself when the transition fails.
//
// - implements store.Ledger
type Ledger struct {
	db     DB
	bucket []byte
}

// NewLedger returns a ledger that stores the keys in the given bucket.
func NewLedger(db DB, bucket []byte) Ledger {
	return Ledger{
		db:     db,
		bucket: bucket,
	}
}

// View implements store.Ledger. The bucket is not created if it is missing, in
// which case the reader behaves as an empty store.
func (l Ledger) View(fn func(store.Reader) error) error {
	return l.db.View(func(tx ReadableTx) error {
		return fn(bucketSnapshot{bucket: tx.GetBucket(l.bucket)})
	})
}

// Stage implements store.Ledger.
func (l Ledger) Stage(fn func(store.Snapshot) error) error {
	return l.db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(l.bucket)
		if err != nil {
			return xerrors.Errorf("failed to open ledger: %v", err)
		}

		return fn(bucketSnapshot{bucket: bucket})
	})
}

// bucketSnapshot exposes a bucket as a store snapshot. Keys and values are
// copied as the memory of the database is only valid during the transaction.
//
// - implements store.Snapshot
type bucketSnapshot struct {
	bucket Bucket
}

// Get implements store.Readable.
func (s bucketSnapshot) Get(key []byte) ([]byte, error) {
	if s.bucket == nil {
		return nil, nil
	}

	value := s.bucket.Get(key)
	if value == nil {
		return nil, nil
	}

	return append([]byte{}, value...), nil
}

// Set implements store.Writable.
func (s bucketSnapshot) Set(key, value []byte) error {
	if s.bucket == nil {
		return xerrors.New("read-only snapshot")
	}

	return s.bucket.Set(key, value)
}

// Delete implements store.Writable.
func (s bucketSnapshot) Delete(key []byte) error {
	if s.bucket == nil {
		return xerrors.New("read-only snapshot")
	}

	return s.bucket.Delete(key)
}

// Scan implements store.Iterable.
func (s bucketSnapshot) Scan(prefix, from []byte, fn func(k, v []byte) error) error {
	if s.bucket == nil {
		return nil
	}

	err := s.bucket.Scan(prefix, from, func(k, v []byte) error {
		return fn(append([]byte{}, k...), append([]byte{}, v...))
	})

	if xerrors.Is(err, store.ErrStop) {
		return nil
	}

	return err
}
