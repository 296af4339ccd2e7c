package system

import (
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/account"
	"go.dedis.ch/recordstore/core/execution"
	"go.dedis.ch/recordstore/core/execution/native"
	"go.dedis.ch/recordstore/core/txn"
	"go.dedis.ch/recordstore/crypto"
	"golang.org/x/xerrors"
)

// CreateAccount invokes the system program from another program to allocate
// the slot with the funds of the payer. The new account is owned by the given
// program.
func CreateAccount(inv execution.Invoker, payer, slot account.Handle, space uint64, owner string) error {
	args := []txn.Arg{
		{Key: CmdArg, Value: []byte(CmdCreate)},
		txn.NewUint64Arg(SpaceArg, space),
		{Key: OwnerArg, Value: []byte(owner)},
	}

	err := inv.Invoke(ProgramName, []account.Handle{payer, slot}, args...)
	if err != nil {
		return xerrors.Errorf("system: %w", err)
	}

	return nil
}

// MakeCreate creates a transaction that allocates the slot of the signer with
// the given space for the owner. The payer funds the allocation.
func MakeCreate(mgr txn.Manager, payer access.Address, slot crypto.Signer, space uint64, owner string) (txn.Transaction, error) {
	addr, err := access.AddressOf(slot.GetPublicKey())
	if err != nil {
		return nil, xerrors.Errorf("slot: %v", err)
	}

	refs := []txn.AccountRef{
		{Address: payer, Mode: access.Write | access.Sign},
		{Address: addr, Mode: access.Create},
	}

	tx, err := mgr.Make(refs, []crypto.Signer{slot},
		txn.Arg{Key: native.ContractArg, Value: []byte(ProgramName)},
		txn.Arg{Key: CmdArg, Value: []byte(CmdCreate)},
		txn.NewUint64Arg(SpaceArg, space),
		txn.Arg{Key: OwnerArg, Value: []byte(owner)},
	)
	if err != nil {
		return nil, xerrors.Errorf("failed to make transaction: %v", err)
	}

	return tx, nil
}

// MakeTransfer creates a transaction that moves lamports from the identity of
// the manager to the slot.
func MakeTransfer(mgr txn.Manager, from, to access.Address, lamports uint64) (txn.Transaction, error) {
	refs := []txn.AccountRef{
		{Address: from, Mode: access.Write | access.Sign},
		{Address: to, Mode: access.Write},
	}

	tx, err := mgr.Make(refs, nil,
		txn.Arg{Key: native.ContractArg, Value: []byte(ProgramName)},
		txn.Arg{Key: CmdArg, Value: []byte(CmdTransfer)},
		txn.NewUint64Arg(LamportsArg, lamports),
	)
	if err != nil {
		return nil, xerrors.Errorf("failed to make transaction: %v", err)
	}

	return tx, nil
}
