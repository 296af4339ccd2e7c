// Package access defines the addresses of the storage slots and the access
// modes a transaction grants on them.
//
// Every slot referenced by a transaction is tagged with a mode. A read-only
// reference cannot be modified, a writable one can, and a reference that is
// both writable and signed by the slot keypair can be used to create the slot.
package access

import (
	"encoding/hex"
	"strings"

	"go.dedis.ch/recordstore/crypto"
	"golang.org/x/xerrors"
)

// AddressSize is the size in bytes of an address.
const AddressSize = 32

// Address is the identifier of a storage slot. It is the marshaled public key
// of the keypair that owns the slot identity.
type Address [AddressSize]byte

// NewAddress returns the address of the raw bytes.
func NewAddress(data []byte) (Address, error) {
	var addr Address

	if len(data) != AddressSize {
		return addr, xerrors.Errorf("invalid address length %d", len(data))
	}

	copy(addr[:], data)

	return addr, nil
}

// AddressOf returns the address of the public key.
func AddressOf(pk crypto.PublicKey) (Address, error) {
	data, err := pk.MarshalBinary()
	if err != nil {
		return Address{}, xerrors.Errorf("failed to marshal public key: %v", err)
	}

	addr, err := NewAddress(data)
	if err != nil {
		return Address{}, xerrors.Errorf("public key: %v", err)
	}

	return addr, nil
}

// ParseAddress returns the address of the hexadecimal string.
func ParseAddress(text string) (Address, error) {
	data, err := hex.DecodeString(text)
	if err != nil {
		return Address{}, xerrors.Errorf("malformed address: %v", err)
	}

	return NewAddress(data)
}

// IsZero returns true if every byte of the address is zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler. It returns the hexadecimal
// representation of the address.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}

	*a = addr

	return nil
}

// String implements fmt.Stringer. It returns the hexadecimal representation of
// the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Mode is the set of permissions a transaction grants on a slot.
type Mode uint8

const (
	// Write allows the slot to be modified.
	Write Mode = 1 << iota

	// Sign indicates that the slot identity signed the transaction.
	Sign
)

const (
	// ReadOnly is the mode of a slot that can only be read.
	ReadOnly Mode = 0

	// Create is the mode required to allocate a slot.
	Create = Write | Sign
)

// CanWrite returns true if the mode allows modifications.
func (m Mode) CanWrite() bool {
	return m&Write != 0
}

// CanSign returns true if the mode requires a signature of the slot identity.
func (m Mode) CanSign() bool {
	return m&Sign != 0
}

// CanCreate returns true if the mode allows the allocation of the slot.
func (m Mode) CanCreate() bool {
	return m&Create == Create
}

// String implements fmt.Stringer. It returns a human readable list of the
// permissions.
func (m Mode) String() string {
	if m == ReadOnly {
		return "read-only"
	}

	var perms []string
	if m.CanWrite() {
		perms = append(perms, "writable")
	}
	if m.CanSign() {
		perms = append(perms, "signer")
	}

	return strings.Join(perms, ",")
}
