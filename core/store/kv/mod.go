// Package kv defines the key/value database used to persist the ledger.
//
// New opens a file database on top of bbolt (https://github.com/etcd-io/bbolt)
// and NewLedger exposes one of its buckets as a store.Ledger so that every
// transition is written in a single database update.
package kv

// Bucket is a namespace of keys inside the database.
type Bucket interface {
	// Get returns the value of the key, or nil when it is missing.
	Get(key []byte) []byte

	// Set writes the value of the key.
	Set(key, value []byte) error

	// Delete removes the key. Removing a missing key is not an error.
	Delete(key []byte) error

	// Scan calls fn in key order for the keys that start with prefix and are
	// not smaller than from. It stops at the first error of fn.
	Scan(prefix, from []byte, fn func(k, v []byte) error) error
}

// ReadableTx is a read-only transaction.
type ReadableTx interface {
	// GetBucket returns the bucket of the name, or nil when it was never
	// created.
	GetBucket(name []byte) Bucket
}

// WritableTx is a transaction that can create buckets and modify them.
type WritableTx interface {
	ReadableTx

	// GetBucketOrCreate returns the bucket of the name and creates it first if
	// necessary.
	GetBucketOrCreate(name []byte) (Bucket, error)
}

// DB is a key/value database with atomic transactions.
type DB interface {
	// View runs fn inside a read-only transaction.
	View(fn func(ReadableTx) error) error

	// Update runs fn inside a writable transaction. Nothing is written when fn
	// returns an error.
	Update(fn func(WritableTx) error) error

	// Close releases the database. The transactions fail afterwards.
	Close() error
}
