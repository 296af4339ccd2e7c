// Package record implements the record program. A record is a slot holding a
// single unsigned 64-bit value. It is created once with the funds of a payer
// and can then be updated any number of times.
//
// The stored layout is fixed: an 8-byte type tag followed by the value in
// little-endian, for a total of 16 bytes that are never resized.
package record

import (
	"go.dedis.ch/recordstore"
	"go.dedis.ch/recordstore/contracts/system"
	"go.dedis.ch/recordstore/core/account"
	"go.dedis.ch/recordstore/core/execution"
	"go.dedis.ch/recordstore/core/execution/native"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/txn"
	"golang.org/x/xerrors"
)

// commands defines the commands of the record program. This interface helps in
// testing the contract.
type commands interface {
	initialize(step execution.Step) error
	update(step execution.Step) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/recordstore.Record"

	// CmdArg is the argument's name to indicate the kind of command we want to
	// run on the contract. Should be one of the Command type.
	CmdArg = "record:command"

	// DataArg is the argument's name in the transaction that contains the
	// value to store, encoded over 8 bytes in little-endian.
	DataArg = "record:data"
)

// Command defines a type of command for the record contract.
type Command string

const (
	// CmdInitialize defines the command to create a record. The transaction
	// references the record slot (writable, signer), the payer (writable,
	// signer) and the system program.
	CmdInitialize Command = "INITIALIZE"

	// CmdUpdate defines the command to overwrite the value of a record. The
	// transaction references the record slot (writable).
	CmdUpdate Command = "UPDATE"
)

// RegisterContract registers the record contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the record program.
//
// - implements native.Contract
type Contract struct {
	// cmd provides the commands that can be executed by this contract
	cmd commands
}

// NewContract creates a new record contract.
func NewContract() Contract {
	contract := Contract{}
	contract.cmd = recordCommand{}

	return contract
}

// UID implements native.Contract.
func (c Contract) UID() string {
	return "rcrd"
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(_ store.Snapshot, step execution.Step) error {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return account.Reject("'%s' not found in tx arg", CmdArg)
	}

	switch Command(cmd) {
	case CmdInitialize:
		err := c.cmd.initialize(step)
		if err != nil {
			return xerrors.Errorf("failed to INITIALIZE: %w", err)
		}
	case CmdUpdate:
		err := c.cmd.update(step)
		if err != nil {
			return xerrors.Errorf("failed to UPDATE: %w", err)
		}
	default:
		return account.Reject("unknown command: %s", cmd)
	}

	return nil
}

// recordCommand implements the commands of the record contract.
//
// - implements commands
type recordCommand struct{}

// initialize implements commands. It allocates the record slot through the
// system program and writes the value.
func (recordCommand) initialize(step execution.Step) error {
	if len(step.Accounts) != 3 {
		return account.Reject("expected 3 accounts but got %d", len(step.Accounts))
	}

	slot, payer, sys := step.Accounts[0], step.Accounts[1], step.Accounts[2]

	if sys.GetAddress() != system.ProgramAddress {
		return account.Reject("expected the system program but got %v", sys.GetAddress())
	}

	value, err := txn.DecodeUint64(step.Current.GetArg(DataArg))
	if err != nil {
		return account.Reject("invalid '%s': %v", DataArg, err)
	}

	if step.Invoker == nil {
		return account.Reject("nested invocations are not available")
	}

	err = system.CreateAccount(step.Invoker, payer, slot, Size, ContractName)
	if err != nil {
		return err
	}

	acc, err := slot.Load()
	if err != nil {
		return err
	}

	err = write(slot, acc, value)
	if err != nil {
		return err
	}

	recordstore.Logger.Info().
		Str("contract", ContractName).
		Stringer("slot", slot.GetAddress()).
		Uint64("data", value).
		Msg("record initialized")

	return nil
}

// update implements commands. It overwrites the value of the record.
func (recordCommand) update(step execution.Step) error {
	if len(step.Accounts) != 1 {
		return account.Reject("expected 1 account but got %d", len(step.Accounts))
	}

	slot := step.Accounts[0]

	value, err := txn.DecodeUint64(step.Current.GetArg(DataArg))
	if err != nil {
		return account.Reject("invalid '%s': %v", DataArg, err)
	}

	acc, err := slot.Load()
	if err != nil {
		return err
	}

	// Only a tagged record can be updated.
	_, err = decode(slot.GetAddress(), acc)
	if err != nil {
		return err
	}

	err = write(slot, acc, value)
	if err != nil {
		return err
	}

	recordstore.Logger.Info().
		Str("contract", ContractName).
		Stringer("slot", slot.GetAddress()).
		Uint64("data", value).
		Msg("record updated")

	return nil
}

// write stores the value as a tagged record in the account of the slot. Only
// the data region of the account changes.
func write(slot account.Handle, acc account.Account, value uint64) error {
	if acc.Owner != ContractName {
		return account.Reject("slot %v is owned by '%s'", slot.GetAddress(), acc.Owner)
	}

	var err error
	acc.Data, err = Record{Data: value}.MarshalBinary()
	if err != nil {
		return xerrors.Errorf("failed to marshal record: %v", err)
	}

	return slot.Store(acc)
}
