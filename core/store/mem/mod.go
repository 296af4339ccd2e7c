// Package mem implements an in-memory snapshot that stages the updates on top
// of a parent store.
//
// Reads fall back to the parent when a key has not been touched, and the staged
// updates can be applied to a writable store in one go. A snapshot without a
// parent is a plain in-memory store.
package mem

import (
	"sort"

	"go.dedis.ch/recordstore/core/store"
	"golang.org/x/xerrors"
)

// item is a staged update. A deleted item hides the value of the parent.
type item struct {
	value   []byte
	deleted bool
}

// Snapshot is an in-memory snapshot that keeps the updates of the current
// layer only.
//
// - implements store.Snapshot
type Snapshot struct {
	parent store.Readable
	store  map[string]item
}

// NewSnapshot returns a new empty snapshot on top of the parent, which can be
// nil.
func NewSnapshot(parent store.Readable) *Snapshot {
	return &Snapshot{
		parent: parent,
		store:  make(map[string]item),
	}
}

// Get implements store.Readable. It returns the staged value of the key if any,
// otherwise it looks up the parent.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	it, found := s.store[string(key)]
	if found {
		if it.deleted {
			return nil, nil
		}

		return append([]byte{}, it.value...), nil
	}

	if s.parent == nil {
		return nil, nil
	}

	val, err := s.parent.Get(key)
	if err != nil {
		return nil, xerrors.Errorf("parent: %v", err)
	}

	return val, nil
}

// Set implements store.Writable. It stages the value for the key.
func (s *Snapshot) Set(key, value []byte) error {
	s.store[string(key)] = item{value: append([]byte{}, value...)}

	return nil
}

// Delete implements store.Writable. It stages the deletion of the key.
func (s *Snapshot) Delete(key []byte) error {
	s.store[string(key)] = item{deleted: true}

	return nil
}

// Len returns the number of staged updates.
func (s *Snapshot) Len() int {
	return len(s.store)
}

// Apply writes the staged updates to the store in the lexicographic order of
// the keys.
func (s *Snapshot) Apply(w store.Writable) error {
	keys := make([]string, 0, len(s.store))
	for key := range s.store {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		it := s.store[key]

		var err error
		if it.deleted {
			err = w.Delete([]byte(key))
		} else {
			err = w.Set([]byte(key), it.value)
		}

		if err != nil {
			return xerrors.Errorf("failed to apply key %#x: %v", key, err)
		}
	}

	return nil
}
