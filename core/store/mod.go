// Package store defines the key/value primitives the accounts and nonces are
// kept in.
//
// A missing key is not an error: readers return a nil value so that callers
// can distinguish an empty slot from a storage failure.
package store

// Readable is a store that can be read.
type Readable interface {
	// Get returns the value of the key, or nil if it does not exist.
	Get(key []byte) ([]byte, error)
}

// Writable is a store that can be modified.
type Writable interface {
	Set(key []byte, value []byte) error

	Delete(key []byte) error
}

// Snapshot is a readable and writable view of the store. Whether the writes
// reach the underlying store depends on the implementation.
type Snapshot interface {
	Readable
	Writable
}
