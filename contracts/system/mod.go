// Package system implements the system program. It is the only program
// allowed to allocate slots, and it moves lamports between system accounts.
//
// An allocation debits the payer the minimum balance that exempts the new
// account from storage fees, and credits it to the new account.
package system

import (
	"math"
	"math/bits"

	"go.dedis.ch/recordstore"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/account"
	"go.dedis.ch/recordstore/core/execution"
	"go.dedis.ch/recordstore/core/execution/native"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/txn"
	"golang.org/x/xerrors"
)

// commands defines the commands of the system program. This interface helps in
// testing the contract.
type commands interface {
	create(step execution.Step) error
	transfer(step execution.Step) error
}

const (
	// ProgramName is the name of the program.
	ProgramName = account.SystemOwner

	// CmdArg is the argument's name to indicate the kind of command we want to
	// run on the program.
	CmdArg = "system:command"

	// SpaceArg is the argument's name of the size of the data region to
	// allocate, encoded over 8 bytes.
	SpaceArg = "system:space"

	// OwnerArg is the argument's name of the program that will own the new
	// account.
	OwnerArg = "system:owner"

	// LamportsArg is the argument's name of the amount to transfer, encoded
	// over 8 bytes.
	LamportsArg = "system:lamports"
)

const (
	// AccountStorageOverhead is the number of bytes accounted for the metadata
	// of an account on top of its data.
	AccountStorageOverhead = 128

	// LamportsPerByteYear is the storage fee of one byte for a year.
	LamportsPerByteYear = 3480

	// ExemptionThreshold is the number of years of fees an account must hold
	// to be exempted.
	ExemptionThreshold = 2

	// MaxSpace is the largest data region a slot can be allocated with.
	MaxSpace = 10 * 1024 * 1024
)

// ProgramAddress is the address the transactions use to reference the system
// program.
var ProgramAddress = access.Address{}

// Command defines a type of command for the system program.
type Command string

const (
	// CmdCreate defines the command to allocate a slot.
	CmdCreate Command = "CREATE"

	// CmdTransfer defines the command to move lamports.
	CmdTransfer Command = "TRANSFER"
)

// MinimumBalance returns the balance an account of the given data size must
// hold to be allocated. It saturates to the maximum amount when the cost does
// not fit in 64 bits, so that no balance can pay for it.
func MinimumBalance(space uint64) uint64 {
	size, carry := bits.Add64(space, AccountStorageOverhead, 0)
	if carry != 0 {
		return math.MaxUint64
	}

	hi, cost := bits.Mul64(size, LamportsPerByteYear*ExemptionThreshold)
	if hi != 0 {
		return math.MaxUint64
	}

	return cost
}

// RegisterContract registers the system program to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ProgramName, c)
}

// Contract is the system program.
//
// - implements native.Contract
type Contract struct {
	cmd commands
}

// NewContract creates a new system program.
func NewContract() Contract {
	contract := Contract{}
	contract.cmd = systemCommand{}

	return contract
}

// UID implements native.Contract.
func (c Contract) UID() string {
	return "syst"
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(_ store.Snapshot, step execution.Step) error {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return account.Reject("'%s' not found in tx arg", CmdArg)
	}

	switch Command(cmd) {
	case CmdCreate:
		err := c.cmd.create(step)
		if err != nil {
			return xerrors.Errorf("failed to CREATE: %w", err)
		}
	case CmdTransfer:
		err := c.cmd.transfer(step)
		if err != nil {
			return xerrors.Errorf("failed to TRANSFER: %w", err)
		}
	default:
		return account.Reject("unknown command: %s", cmd)
	}

	return nil
}

// systemCommand implements the commands of the system program.
//
// - implements commands
type systemCommand struct{}

// create implements commands. It allocates the second slot of the step with
// the funds of the first one.
func (systemCommand) create(step execution.Step) error {
	if len(step.Accounts) != 2 {
		return account.Reject("expected 2 accounts but got %d", len(step.Accounts))
	}

	payer, slot := step.Accounts[0], step.Accounts[1]

	space, err := txn.DecodeUint64(step.Current.GetArg(SpaceArg))
	if err != nil {
		return account.Reject("invalid '%s': %v", SpaceArg, err)
	}

	if space > MaxSpace {
		return account.Reject("space %d exceeds the maximum of %d bytes", space, MaxSpace)
	}

	owner := string(step.Current.GetArg(OwnerArg))
	if owner == "" {
		return account.Reject("'%s' not found in tx arg", OwnerArg)
	}

	if payer.GetAddress() == slot.GetAddress() {
		return account.Reject("payer %v cannot fund its own allocation", payer.GetAddress())
	}

	if !payer.GetMode().CanSign() {
		return account.Reject("payer %v must sign", payer.GetAddress())
	}

	exists, err := slot.Exists()
	if err != nil {
		return err
	}

	if exists {
		return xerrors.Errorf("slot %v: %w", slot.GetAddress(), account.ErrAlreadyInitialized)
	}

	cost := MinimumBalance(space)

	err = debit(payer, cost)
	if err != nil {
		return err
	}

	acc := account.Account{
		Owner:    owner,
		Lamports: cost,
		Data:     make([]byte, space),
	}

	err = slot.Store(acc)
	if err != nil {
		return err
	}

	recordstore.Logger.Debug().
		Str("contract", ProgramName).
		Stringer("slot", slot.GetAddress()).
		Str("owner", owner).
		Uint64("space", space).
		Uint64("cost", cost).
		Msg("slot allocated")

	return nil
}

// transfer implements commands. It moves lamports from the first slot of the
// step to the second one, which is created if it is empty.
func (systemCommand) transfer(step execution.Step) error {
	if len(step.Accounts) != 2 {
		return account.Reject("expected 2 accounts but got %d", len(step.Accounts))
	}

	from, to := step.Accounts[0], step.Accounts[1]

	lamports, err := txn.DecodeUint64(step.Current.GetArg(LamportsArg))
	if err != nil {
		return account.Reject("invalid '%s': %v", LamportsArg, err)
	}

	if from.GetAddress() == to.GetAddress() {
		return account.Reject("slot %v cannot transfer to itself", from.GetAddress())
	}

	if !from.GetMode().CanSign() {
		return account.Reject("sender %v must sign", from.GetAddress())
	}

	err = debit(from, lamports)
	if err != nil {
		return err
	}

	acc, err := to.Load()
	if xerrors.Is(err, account.ErrUninitializedRecord) {
		acc = account.Account{Owner: account.SystemOwner}
	} else if err != nil {
		return err
	}

	err = acc.Credit(lamports)
	if err != nil {
		return xerrors.Errorf("slot %v: %w", to.GetAddress(), err)
	}

	return to.Store(acc)
}

// debit withdraws the amount from the account of the handle.
func debit(h account.Handle, amount uint64) error {
	acc, err := h.Load()
	if xerrors.Is(err, account.ErrUninitializedRecord) {
		return xerrors.Errorf("%v has 0 lamports, %d required: %w",
			h.GetAddress(), amount, account.ErrInsufficientFunds)
	}
	if err != nil {
		return err
	}

	if acc.Lamports < amount {
		return xerrors.Errorf("%v has %d lamports, %d required: %w",
			h.GetAddress(), acc.Lamports, amount, account.ErrInsufficientFunds)
	}

	acc.Lamports -= amount

	return h.Store(acc)
}
