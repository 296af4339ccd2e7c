package account

import (
	"fmt"

	"golang.org/x/xerrors"
)

// The errors below are the failures a program invocation can report. They are
// wrapped with the details of the slot, so they must be compared with
// xerrors.Is.
var (
	// ErrAlreadyInitialized is returned when a slot is allocated twice.
	ErrAlreadyInitialized = xerrors.New("already initialized")

	// ErrInsufficientFunds is returned when the payer cannot cover the cost of
	// an allocation or a transfer.
	ErrInsufficientFunds = xerrors.New("insufficient funds")

	// ErrNotWritable is returned when a slot is modified without being
	// referenced as writable.
	ErrNotWritable = xerrors.New("not writable")

	// ErrUninitializedRecord is returned when a slot is read before it is
	// allocated.
	ErrUninitializedRecord = xerrors.New("uninitialized record")

	// ErrHostRejected is returned for any other authorization or validation
	// failure.
	ErrHostRejected = xerrors.New("rejected by host")
)

// Reject returns an error wrapping ErrHostRejected with the formatted reason.
func Reject(format string, args ...interface{}) error {
	return xerrors.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrHostRejected)
}
