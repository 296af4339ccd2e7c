package kv

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

func ExampleDB_Update() {
	dir, err := os.MkdirTemp(os.TempDir(), "example")
	if err != nil {
		panic("failed to create folder: " + err.Error())
	}

	defer os.RemoveAll(dir)

	db, err := New(filepath.Join(dir, "example.db"))
	if err != nil {
		panic("failed to open db: " + err.Error())
	}

	defer db.Close()

	err = db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate([]byte("nonces"))
		if err != nil {
			return err
		}

		return bucket.Set([]byte("alice"), []byte{3})
	})
	if err != nil {
		panic("database write failed: " + err.Error())
	}

	// A failed update leaves the previous value.
	err = db.Update(func(tx WritableTx) error {
		err := tx.GetBucket([]byte("nonces")).Set([]byte("alice"), []byte{4})
		if err != nil {
			return err
		}

		return xerrors.New("rejected")
	})
	fmt.Println(err)

	err = db.View(func(tx ReadableTx) error {
		fmt.Println(tx.GetBucket([]byte("nonces")).Get([]byte("alice")))
		return nil
	})
	if err != nil {
		panic("database read failed: " + err.Error())
	}

	// Output: rejected
	// [3]
}
