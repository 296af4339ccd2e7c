package record

import (
	"crypto/sha256"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/account"
	"go.dedis.ch/recordstore/core/store/mem"
	"go.dedis.ch/recordstore/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestTag(t *testing.T) {
	digest := sha256.Sum256([]byte("account:MyAccount"))

	require.Equal(t, digest[:8], Tag[:])
}

func TestRecord_MarshalBinary(t *testing.T) {
	f := func(value uint64) bool {
		data, err := Record{Data: value}.MarshalBinary()
		if err != nil || len(data) != Size {
			return false
		}

		var rec Record
		err = rec.UnmarshalBinary(data)

		return err == nil && rec.Data == value
	}

	err := quick.Check(f, nil)
	require.NoError(t, err)

	data, err := Record{Data: 0x0102}.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{2, 1, 0, 0, 0, 0, 0, 0}, data[TagSize:])
}

func TestRecord_UnmarshalBinary(t *testing.T) {
	var rec Record

	err := rec.UnmarshalBinary(make([]byte, 4))
	require.EqualError(t, err, "invalid record size 4: rejected by host")

	err = rec.UnmarshalBinary(make([]byte, Size))
	require.True(t, xerrors.Is(err, account.ErrHostRejected))
}

func TestFetch(t *testing.T) {
	snap := mem.NewSnapshot(nil)
	slot := access.Address{1}

	_, err := Fetch(snap, slot)
	require.True(t, xerrors.Is(err, account.ErrUninitializedRecord))

	data, err := Record{Data: 9}.MarshalBinary()
	require.NoError(t, err)

	err = account.Write(snap, slot, account.Account{Owner: ContractName, Data: data})
	require.NoError(t, err)

	rec, err := Fetch(snap, slot)
	require.NoError(t, err)
	require.Equal(t, Record{Data: 9}, rec)

	err = account.Write(snap, slot, account.Account{Owner: "other", Data: data})
	require.NoError(t, err)

	_, err = Fetch(snap, slot)
	require.True(t, xerrors.Is(err, account.ErrHostRejected))

	err = account.Write(snap, slot, account.Account{Owner: ContractName, Data: make([]byte, Size)})
	require.NoError(t, err)

	_, err = Fetch(snap, slot)
	require.True(t, xerrors.Is(err, account.ErrUninitializedRecord))

	data[0] ^= 0xff
	err = account.Write(snap, slot, account.Account{Owner: ContractName, Data: data})
	require.NoError(t, err)

	_, err = Fetch(snap, slot)
	require.True(t, xerrors.Is(err, account.ErrHostRejected))

	_, err = Fetch(fake.NewBadSnapshot(), slot)
	require.EqualError(t, err, fake.Err("failed to read: failed to read slot "+slot.String()))
}
