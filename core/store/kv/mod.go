// Package kv defines the key/value database the host persists its slots in,
// and implements it on top of bbolt.
package kv

// Bucket is a namespace of keys inside the database.
type Bucket interface {
	// Get returns the value of the key, or nil when it is missing. The value
	// is only valid for the lifetime of the transaction.
	Get(key []byte) []byte

	Set(key, value []byte) error

	Delete(key []byte) error
}

// ReadableTx is a read-only transaction.
type ReadableTx interface {
	// GetBucket returns nil when the bucket does not exist.
	GetBucket(name []byte) Bucket
}

// WritableTx is a read-write transaction.
type WritableTx interface {
	ReadableTx

	GetBucketOrCreate(name []byte) (Bucket, error)
}

// DB is a key/value database with atomic transactions.
type DB interface {
	View(fn func(ReadableTx) error) error

	// Update commits the changes of the callback, or none of them if it
	// returns an error.
	Update(fn func(WritableTx) error) error

	Close() error
}
