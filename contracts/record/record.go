package record

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/account"
	"go.dedis.ch/recordstore/core/store"
	"golang.org/x/xerrors"
)

const (
	// TypeName is the name of the record type. It determines the tag at the
	// beginning of the stored records.
	TypeName = "MyAccount"

	// TagSize is the size of the type tag.
	TagSize = 8

	// Size is the size of a stored record: the tag followed by the value.
	Size = TagSize + 8
)

// Tag is the type tag of the records. It is the first 8 bytes of the SHA-256
// digest of "account:" followed by the type name.
var Tag = makeTag(TypeName)

func makeTag(name string) [TagSize]byte {
	digest := sha256.Sum256([]byte("account:" + name))

	var tag [TagSize]byte
	copy(tag[:], digest[:TagSize])

	return tag
}

// Record is the value stored in a slot owned by the record program.
type Record struct {
	Data uint64
}

// MarshalBinary implements encoding.BinaryMarshaler. It returns the tag
// followed by the value in little-endian.
func (r Record) MarshalBinary() ([]byte, error) {
	buffer := make([]byte, Size)
	copy(buffer, Tag[:])
	binary.LittleEndian.PutUint64(buffer[TagSize:], r.Data)

	return buffer, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It fails if the data
// is not a tagged record.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) != Size {
		return account.Reject("invalid record size %d", len(data))
	}

	if !bytes.Equal(data[:TagSize], Tag[:]) {
		return account.Reject("invalid record tag %#x", data[:TagSize])
	}

	r.Data = binary.LittleEndian.Uint64(data[TagSize:])

	return nil
}

// Fetch reads the record of the slot. It returns an error wrapping
// ErrUninitializedRecord if the slot is empty or allocated but never tagged.
func Fetch(r store.Readable, addr access.Address) (Record, error) {
	acc, found, err := account.Read(r, addr)
	if err != nil {
		return Record{}, xerrors.Errorf("failed to read: %v", err)
	}

	if !found {
		return Record{}, xerrors.Errorf("slot %v: %w", addr, account.ErrUninitializedRecord)
	}

	return decode(addr, acc)
}

func decode(addr access.Address, acc account.Account) (Record, error) {
	if acc.Owner != ContractName {
		return Record{}, account.Reject("slot %v is owned by '%s'", addr, acc.Owner)
	}

	if len(acc.Data) == Size && isZero(acc.Data[:TagSize]) {
		return Record{}, xerrors.Errorf("slot %v: %w", addr, account.ErrUninitializedRecord)
	}

	var rec Record
	err := rec.UnmarshalBinary(acc.Data)
	if err != nil {
		return Record{}, xerrors.Errorf("slot %v: %w", addr, err)
	}

	return rec, nil
}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}

	return true
}
