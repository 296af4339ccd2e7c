// Package execution defines the service that runs the programs, and the input
// a program receives for one step of execution.
package execution

import (
	"go.dedis.ch/recordstore/core/account"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/txn"
)

// Step is the input of a program execution.
type Step struct {
	// Current is the transaction being executed. For a nested invocation, it
	// only exposes the arguments of the call.
	Current txn.Transaction

	// Accounts are the handles of the slots referenced by the transaction, in
	// the same order.
	Accounts []account.Handle

	// Invoker allows the program to invoke another program.
	Invoker Invoker
}

// Invoker is the interface to invoke a program from another one. The callee
// receives the handles with the same access modes.
type Invoker interface {
	Invoke(program string, accounts []account.Handle, args ...txn.Arg) error
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a change to the execution to explain why a transaction has
	// failed.
	Message string

	// Err is the cause of the failure, if any.
	Err error
}

// Service is the execution service that defines the primitives to execute a
// transaction.
type Service interface {
	// Execute must apply the step to the snapshot and return the result of
	// it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
