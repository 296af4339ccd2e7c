package execution

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/recordstore/core/txn"
)

func TestCall_GetArg(t *testing.T) {
	parent := fakeTx{nonce: 5, args: map[string][]byte{"A": {1}}}

	c := NewCall(parent, txn.Arg{Key: "B", Value: []byte{2}})

	require.Equal(t, uint64(5), c.GetNonce())
	require.Equal(t, []byte{2}, c.GetArg("B"))
	require.Nil(t, c.GetArg("A"))
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeTx struct {
	txn.Transaction

	nonce uint64
	args  map[string][]byte
}

func (tx fakeTx) GetNonce() uint64 {
	return tx.nonce
}

func (tx fakeTx) GetArg(key string) []byte {
	return tx.args[key]
}
