// Package txn defines the abstraction of transactions.
//
// A transaction is a program input. It is uniquely identifiable via a digest
// and it can be sorted with the nonce that acts as a sequence number. It is
// created and paid by an identity, and it references the slots the program is
// allowed to access together with the access mode of each reference.
//
// The manager helps to create transactions as the nonce needs to be correct for
// the transaction to be valid.
package txn

import (
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/crypto"
)

// Transaction is what triggers a program execution by passing it as part of
// the input.
type Transaction interface {
	// GetID returns the unique identifier for the transaction.
	GetID() []byte

	// GetNonce returns the nonce of the transaction which corresponds to the
	// sequence number of a unique identity.
	GetNonce() uint64

	// GetIdentity returns the identity that created and pays the transaction.
	GetIdentity() crypto.PublicKey

	// GetArg is a getter for the arguments of the transaction.
	GetArg(key string) []byte

	// GetAccounts returns the slots referenced by the transaction in order.
	GetAccounts() []AccountRef

	// Verify returns nil if the identity and every slot referenced as a
	// signer have signed the transaction, otherwise an error.
	Verify() error
}

// Arg is a generic argument that can be stored in a transaction.
type Arg struct {
	Key   string
	Value []byte
}

// AccountRef is the reference of a slot in a transaction, tagged with the
// access mode granted to the program.
type AccountRef struct {
	Address access.Address
	Mode    access.Mode
}

// Manager is a manager to create transaction. It can help creating
// transactions when some information is required like the current nonce.
type Manager interface {
	// Make creates a transaction referencing the accounts. The transaction is
	// signed by the manager identity and the additional signers.
	Make(accounts []AccountRef, signers []crypto.Signer, args ...Arg) (Transaction, error)

	// Sync fetches the current nonce of the manager identity.
	Sync() error
}
