package host

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/store/kv"
	"go.dedis.ch/recordstore/internal/testing/fake"
)

func TestMemStorage_Update(t *testing.T) {
	testStorage(t, NewMemStorage())
}

func TestDiskStorage_Update(t *testing.T) {
	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	testStorage(t, NewDiskStorage(db))
}

func testStorage(t *testing.T, s Storage) {
	err := s.View(func(r store.Readable) error {
		value, err := r.Get([]byte("A"))
		require.NoError(t, err)
		require.Nil(t, value)

		return nil
	})
	require.NoError(t, err)

	err = s.Update(func(snap store.Snapshot) error {
		return snap.Set([]byte("A"), []byte("1"))
	})
	require.NoError(t, err)

	err = s.Update(func(snap store.Snapshot) error {
		require.NoError(t, snap.Set([]byte("A"), []byte("2")))
		require.NoError(t, snap.Set([]byte("B"), []byte("2")))

		return fake.GetError()
	})
	require.EqualError(t, err, fake.GetError().Error())

	err = s.View(func(r store.Readable) error {
		value, err := r.Get([]byte("A"))
		require.NoError(t, err)
		require.Equal(t, []byte("1"), value)

		value, err = r.Get([]byte("B"))
		require.NoError(t, err)
		require.Nil(t, value)

		return nil
	})
	require.NoError(t, err)
}

func TestWatcher_Watch(t *testing.T) {
	w := newWatcher()

	ctx, cancel := context.WithCancel(context.Background())

	ch := w.Watch(ctx)
	require.Equal(t, 1, w.Len())

	for i := 0; i < watchBuffer+1; i++ {
		w.notify(Receipt{Program: "A"})
	}

	require.Len(t, ch, watchBuffer)

	cancel()

	for range ch {
	}

	require.Equal(t, 0, w.Len())
}
