// Package account implements the accounts stored in the slots and the
// capability handles that programs use to access them.
//
// An account has an owner, which is the only program allowed to modify its
// data, a balance in lamports, and a data region whose size is fixed when the
// slot is allocated.
package account

import (
	"encoding/json"

	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/store/prefixed"
	"golang.org/x/xerrors"
)

// SystemOwner is the owner of the accounts that no program has claimed. It is
// also the name of the system program which is the only one allowed to
// allocate slots.
const SystemOwner = "system"

// prefix is the namespace of the accounts in the store.
const prefix = "accounts"

// Account is the content of an allocated slot.
type Account struct {
	Owner    string
	Lamports uint64
	Data     []byte
}

// jsonAccount is the JSON representation of an account in the store.
type jsonAccount struct {
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
	Data     []byte `json:"data,omitempty"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a Account) MarshalBinary() ([]byte, error) {
	m := jsonAccount{
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Data:     a.Data,
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal account: %v", err)
	}

	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Account) UnmarshalBinary(data []byte) error {
	var m jsonAccount

	err := json.Unmarshal(data, &m)
	if err != nil {
		return xerrors.Errorf("failed to unmarshal account: %v", err)
	}

	a.Owner = m.Owner
	a.Lamports = m.Lamports
	a.Data = m.Data

	return nil
}

// Credit adds the lamports to the balance of the account. The balance is left
// unchanged if it would overflow.
func (a *Account) Credit(lamports uint64) error {
	if a.Lamports+lamports < a.Lamports {
		return Reject("balance of %d cannot be credited %d lamports", a.Lamports, lamports)
	}

	a.Lamports += lamports

	return nil
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	clone := a
	if a.Data != nil {
		clone.Data = append([]byte{}, a.Data...)
	}

	return clone
}

// Read returns the account of the slot and true, or false if the slot is
// empty.
func Read(r store.Readable, addr access.Address) (Account, bool, error) {
	value, err := prefixed.NewReadable(prefix, r).Get(addr[:])
	if err != nil {
		return Account{}, false, xerrors.Errorf("failed to read slot %v: %v", addr, err)
	}

	if value == nil {
		return Account{}, false, nil
	}

	var acc Account
	err = acc.UnmarshalBinary(value)
	if err != nil {
		return Account{}, false, xerrors.Errorf("slot %v: %v", addr, err)
	}

	return acc, true, nil
}

// Write stores the account in the slot without any check.
func Write(snap store.Snapshot, addr access.Address, acc Account) error {
	value, err := acc.MarshalBinary()
	if err != nil {
		return xerrors.Errorf("slot %v: %v", addr, err)
	}

	err = prefixed.NewSnapshot(prefix, snap).Set(addr[:], value)
	if err != nil {
		return xerrors.Errorf("failed to write slot %v: %v", addr, err)
	}

	return nil
}
