package execution

import (
	"go.dedis.ch/recordstore/core/txn"
)

// call is the transaction seen by a program invoked by another one. It shares
// the identity of the parent but only carries the arguments of the call.
//
// - implements txn.Transaction
type call struct {
	txn.Transaction

	args map[string][]byte
}

// NewCall returns the transaction of a nested invocation with the given
// arguments.
func NewCall(parent txn.Transaction, args ...txn.Arg) txn.Transaction {
	c := call{
		Transaction: parent,
		args:        make(map[string][]byte, len(args)),
	}

	for _, arg := range args {
		c.args[arg.Key] = arg.Value
	}

	return c
}

// GetArg implements txn.Transaction. It returns the argument of the call, or
// nil if it is not set.
func (c call) GetArg(key string) []byte {
	return c.args[key]
}
