package txn

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

// NewUint64Arg returns an argument with the value encoded over 8 bytes in
// little-endian.
func NewUint64Arg(key string, value uint64) Arg {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, value)

	return Arg{Key: key, Value: buffer}
}

// DecodeUint64 returns the integer of an argument encoded with NewUint64Arg.
func DecodeUint64(value []byte) (uint64, error) {
	if len(value) != 8 {
		return 0, xerrors.Errorf("expected 8 bytes but got %d", len(value))
	}

	return binary.LittleEndian.Uint64(value), nil
}
