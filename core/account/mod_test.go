package account

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/store/mem"
	"go.dedis.ch/recordstore/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestAccount_MarshalBinary(t *testing.T) {
	acc := Account{Owner: "record", Lamports: 10, Data: []byte{1, 2}}

	data, err := acc.MarshalBinary()
	require.NoError(t, err)

	var other Account
	require.NoError(t, other.UnmarshalBinary(data))
	require.Equal(t, acc, other)

	err = other.UnmarshalBinary([]byte("{"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to unmarshal account: ")
}

func TestAccount_Credit(t *testing.T) {
	acc := Account{Lamports: 10}

	require.NoError(t, acc.Credit(5))
	require.Equal(t, uint64(15), acc.Lamports)

	err := acc.Credit(1<<64 - 10)
	require.True(t, xerrors.Is(err, ErrHostRejected))
	require.Equal(t, uint64(15), acc.Lamports)
}

func TestAccount_Clone(t *testing.T) {
	acc := Account{Owner: "record", Data: []byte{1}}

	clone := acc.Clone()
	clone.Data[0] = 2

	require.Equal(t, []byte{1}, acc.Data)
	require.Nil(t, Account{}.Clone().Data)
}

func TestReadWrite(t *testing.T) {
	snap := mem.NewSnapshot(nil)
	addr := access.Address{1}

	_, found, err := Read(snap, addr)
	require.NoError(t, err)
	require.False(t, found)

	acc := Account{Owner: SystemOwner, Lamports: 5}
	require.NoError(t, Write(snap, addr, acc))

	res, found, err := Read(snap, addr)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, acc, res)

	_, _, err = Read(fake.NewBadSnapshot(), addr)
	require.EqualError(t, err, fake.Err("failed to read slot "+addr.String()))

	err = Write(fake.NewBadSnapshot(), addr, acc)
	require.EqualError(t, err, fake.Err("failed to write slot "+addr.String()))
}

func TestReject(t *testing.T) {
	err := Reject("slot %d is invalid", 42)
	require.EqualError(t, err, "slot 42 is invalid: rejected by host")
	require.True(t, xerrors.Is(err, ErrHostRejected))
	require.False(t, xerrors.Is(err, ErrNotWritable))
}
