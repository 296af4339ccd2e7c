package loader

import (
	"bytes"
	"encoding/hex"

	"go.dedis.ch/recordstore/crypto/ed25519"
	"golang.org/x/xerrors"
)

// signerGenerator generates Ed25519 signers encoded in hexadecimal.
//
// - implements loader.Generator
type signerGenerator struct{}

// Generate implements loader.Generator.
func (signerGenerator) Generate() ([]byte, error) {
	data, err := ed25519.NewSigner().MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal signer: %v", err)
	}

	return []byte(hex.EncodeToString(data)), nil
}

// NewSignerGenerator returns a generator of Ed25519 signers.
func NewSignerGenerator() Generator {
	return signerGenerator{}
}

// LoadOrCreateSigner returns the signer stored by the loader, or a new one if
// it does not exist yet.
func LoadOrCreateSigner(l Loader) (ed25519.Signer, error) {
	data, err := l.LoadOrCreate(signerGenerator{})
	if err != nil {
		return ed25519.Signer{}, err
	}

	return decodeSigner(data)
}

// LoadSigner returns the signer stored by the loader.
func LoadSigner(l Loader) (ed25519.Signer, error) {
	data, err := l.Load()
	if err != nil {
		return ed25519.Signer{}, err
	}

	return decodeSigner(data)
}

func decodeSigner(data []byte) (ed25519.Signer, error) {
	raw, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return ed25519.Signer{}, xerrors.Errorf("malformed key: %v", err)
	}

	signer, err := ed25519.LoadSigner(raw)
	if err != nil {
		return ed25519.Signer{}, xerrors.Errorf("failed to load signer: %v", err)
	}

	return signer, nil
}
