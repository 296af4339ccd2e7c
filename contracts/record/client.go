package record

import (
	"go.dedis.ch/recordstore/contracts/system"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/execution/native"
	"go.dedis.ch/recordstore/core/txn"
	"go.dedis.ch/recordstore/crypto"
	"golang.org/x/xerrors"
)

// MakeInitialize creates a transaction that initializes the record of the slot
// signer with the value. The identity of the manager is the payer.
func MakeInitialize(mgr txn.Manager, payer access.Address, slot crypto.Signer, data uint64) (txn.Transaction, error) {
	addr, err := access.AddressOf(slot.GetPublicKey())
	if err != nil {
		return nil, xerrors.Errorf("slot: %v", err)
	}

	refs := []txn.AccountRef{
		{Address: addr, Mode: access.Create},
		{Address: payer, Mode: access.Write | access.Sign},
		{Address: system.ProgramAddress, Mode: access.ReadOnly},
	}

	tx, err := mgr.Make(refs, []crypto.Signer{slot}, makeArgs(CmdInitialize, data)...)
	if err != nil {
		return nil, xerrors.Errorf("failed to make transaction: %v", err)
	}

	return tx, nil
}

// MakeUpdate creates a transaction that overwrites the value of the record of
// the slot.
func MakeUpdate(mgr txn.Manager, slot access.Address, data uint64) (txn.Transaction, error) {
	refs := []txn.AccountRef{
		{Address: slot, Mode: access.Write},
	}

	tx, err := mgr.Make(refs, nil, makeArgs(CmdUpdate, data)...)
	if err != nil {
		return nil, xerrors.Errorf("failed to make transaction: %v", err)
	}

	return tx, nil
}

func makeArgs(cmd Command, data uint64) []txn.Arg {
	return []txn.Arg{
		{Key: native.ContractArg, Value: []byte(ContractName)},
		{Key: CmdArg, Value: []byte(cmd)},
		txn.NewUint64Arg(DataArg, data),
	}
}
