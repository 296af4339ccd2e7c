package host

import (
	"sync"

	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/store/kv"
	"go.dedis.ch/recordstore/core/store/mem"
	"golang.org/x/xerrors"
)

// Storage is the persistence layer of the host. An update is atomic: either the
// callback succeeds and every write is kept, or nothing is.
type Storage interface {
	// View runs the callback with a read-only view of the state.
	View(fn func(store.Readable) error) error

	// Update runs the callback with a writable view of the state that is
	// committed only if the callback returns nil.
	Update(fn func(store.Snapshot) error) error
}

// DiskStorage is a storage backed by a key/value database. The state lives in
// a single bucket.
//
// - implements host.Storage
type DiskStorage struct {
	db     kv.DB
	bucket []byte
}

// NewDiskStorage returns a storage using the database.
func NewDiskStorage(db kv.DB) DiskStorage {
	return DiskStorage{
		db:     db,
		bucket: []byte("recordstore"),
	}
}

// View implements host.Storage.
func (s DiskStorage) View(fn func(store.Readable) error) error {
	return s.db.View(func(tx kv.ReadableTx) error {
		bucket := tx.GetBucket(s.bucket)
		if bucket == nil {
			// Nothing has been written yet.
			return fn(mem.NewSnapshot(nil))
		}

		return fn(kv.NewSnapshot(bucket))
	})
}

// Update implements host.Storage. The database transaction is rolled back when
// the callback fails.
func (s DiskStorage) Update(fn func(store.Snapshot) error) error {
	return s.db.Update(func(tx kv.WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(s.bucket)
		if err != nil {
			return xerrors.Errorf("failed to get bucket: %v", err)
		}

		return fn(kv.NewSnapshot(bucket))
	})
}

// MemStorage is a volatile storage.
//
// - implements host.Storage
type MemStorage struct {
	sync.RWMutex

	state *mem.Snapshot
}

// NewMemStorage returns an empty in-memory storage.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		state: mem.NewSnapshot(nil),
	}
}

// View implements host.Storage.
func (s *MemStorage) View(fn func(store.Readable) error) error {
	s.RLock()
	defer s.RUnlock()

	return fn(s.state)
}

// Update implements host.Storage. The writes are staged and applied to the
// state only when the callback succeeds.
func (s *MemStorage) Update(fn func(store.Snapshot) error) error {
	s.Lock()
	defer s.Unlock()

	staged := mem.NewSnapshot(s.state)

	err := fn(staged)
	if err != nil {
		return err
	}

	return staged.Apply(s.state)
}
