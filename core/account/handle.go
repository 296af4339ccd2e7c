package account

import (
	"bytes"

	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/store"
	"golang.org/x/xerrors"
)

// Handle is the capability a program receives for a slot referenced by the
// transaction. It enforces the access mode of the reference and the ownership
// of the account for the program currently executing.
type Handle struct {
	addr    access.Address
	mode    access.Mode
	program string
	snap    store.Snapshot
}

// NewHandle returns the handle of the slot with the given mode, for the program
// executing on the snapshot. A handle cannot be re-issued to another program:
// the host creates new ones on its own snapshot for nested invocations.
func NewHandle(snap store.Snapshot, addr access.Address, mode access.Mode, program string) Handle {
	return Handle{
		addr:    addr,
		mode:    mode,
		program: program,
		snap:    snap,
	}
}

// GetAddress returns the address of the slot.
func (h Handle) GetAddress() access.Address {
	return h.addr
}

// GetMode returns the access mode granted on the slot.
func (h Handle) GetMode() access.Mode {
	return h.mode
}

// GetProgram returns the program the handle has been issued to.
func (h Handle) GetProgram() string {
	return h.program
}

// Exists returns true if the slot is allocated.
func (h Handle) Exists() (bool, error) {
	_, found, err := Read(h.snap, h.addr)
	if err != nil {
		return false, err
	}

	return found, nil
}

// Load returns the account of the slot. It returns an error wrapping
// ErrUninitializedRecord if the slot is empty.
func (h Handle) Load() (Account, error) {
	acc, found, err := Read(h.snap, h.addr)
	if err != nil {
		return Account{}, err
	}

	if !found {
		return Account{}, xerrors.Errorf("slot %v: %w", h.addr, ErrUninitializedRecord)
	}

	return acc, nil
}

// Store writes the account to the slot. The handle must be writable, and the
// program must either own the account or only credit lamports to it. Empty
// slots can only be claimed by the system program, and an allocation with data
// or for another owner must be signed by the slot identity.
func (h Handle) Store(acc Account) error {
	if !h.mode.CanWrite() {
		return xerrors.Errorf("slot %v: %w", h.addr, ErrNotWritable)
	}

	prev, found, err := Read(h.snap, h.addr)
	if err != nil {
		return err
	}

	if found {
		err = h.checkUpdate(prev, acc)
	} else {
		err = h.checkCreate(acc)
	}

	if err != nil {
		return err
	}

	return Write(h.snap, h.addr, acc)
}

func (h Handle) checkCreate(acc Account) error {
	if h.program != SystemOwner {
		return Reject("program '%s' cannot allocate slot %v", h.program, h.addr)
	}

	if (len(acc.Data) > 0 || acc.Owner != SystemOwner) && !h.mode.CanCreate() {
		return Reject("slot %v must sign its allocation", h.addr)
	}

	return nil
}

func (h Handle) checkUpdate(prev, next Account) error {
	if next.Owner != prev.Owner {
		return Reject("owner of slot %v cannot change", h.addr)
	}

	if len(next.Data) != len(prev.Data) {
		return Reject("slot %v cannot be resized", h.addr)
	}

	if prev.Owner == h.program {
		return nil
	}

	// Any program can credit an account it does not own.
	if bytes.Equal(prev.Data, next.Data) && next.Lamports >= prev.Lamports {
		return nil
	}

	return Reject("program '%s' cannot modify slot %v owned by '%s'",
		h.program, h.addr, prev.Owner)
}
