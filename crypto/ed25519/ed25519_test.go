package ed25519

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v3/sign/schnorr"
	"go.dedis.ch/recordstore/crypto"
)

func TestPublicKey_New(t *testing.T) {
	point := suite.Point()
	pointBuf, err := point.MarshalBinary()
	require.NoError(t, err)

	pubKey, err := NewPublicKey(pointBuf)
	require.NoError(t, err)

	require.True(t, pubKey.GetPoint().Equal(point))

	_, err = NewPublicKey([]byte{})
	require.EqualError(t, err, "couldn't unmarshal point: invalid Ed25519 curve point")
}

func TestPublicKey_NewFromPoint(t *testing.T) {
	point := suite.Point()
	pk := NewPublicKeyFromPoint(point)
	require.True(t, pk.GetPoint().Equal(point))
}

func TestPublicKey_MarshalBinary(t *testing.T) {
	signer := NewSigner()

	buffer, err := signer.GetPublicKey().MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buffer, 32)

	pk, err := NewPublicKey(buffer)
	require.NoError(t, err)
	require.True(t, pk.Equal(signer.GetPublicKey()))
}

func TestPublicKey_Verify(t *testing.T) {
	msg := []byte("deadbeef")
	signer := NewSigner()

	sig, err := signer.Sign(msg)
	require.NoError(t, err)

	err = signer.GetPublicKey().Verify(msg, sig)
	require.NoError(t, err)

	err = signer.GetPublicKey().Verify(append([]byte{1}, msg...), sig)
	require.Error(t, err)
	require.Contains(t, err.Error(), "schnorr verify failed: ")

	err = signer.GetPublicKey().Verify(msg, fakeSignature{})
	require.EqualError(t, err, "invalid signature type 'ed25519.fakeSignature'")
}

func TestPublicKey_Equal(t *testing.T) {
	signer := NewSigner()

	require.True(t, signer.GetPublicKey().Equal(signer.GetPublicKey()))
	require.False(t, signer.GetPublicKey().Equal(NewSigner().GetPublicKey()))
	require.False(t, signer.GetPublicKey().Equal(fakeSignature{}))
}

func TestPublicKey_MarshalText(t *testing.T) {
	pk := NewSigner().GetPublicKey().(PublicKey)

	text, err := pk.MarshalText()
	require.NoError(t, err)
	require.Contains(t, string(text), "schnorr:")
	require.Len(t, text, len("schnorr:")+64)

	require.Len(t, pk.String(), 8+16)
}

func TestSignature_Equal(t *testing.T) {
	f := func(data []byte) bool {
		sig := NewSignature(data)
		buffer, err := sig.MarshalBinary()

		return err == nil && sig.Equal(NewSignature(buffer))
	}

	err := quick.Check(f, nil)
	require.NoError(t, err)

	require.False(t, NewSignature([]byte{1}).Equal(NewSignature([]byte{2})))
	require.False(t, NewSignature([]byte{1}).Equal(fakeSignature{}))
}

func TestSigner_Sign(t *testing.T) {
	signer := NewSigner()

	f := func(msg []byte) bool {
		sig, err := signer.Sign(msg)
		require.NoError(t, err)

		err = schnorr.Verify(suite, signer.keyPair.Public, msg, sig.(Signature).data)
		return err == nil
	}

	err := quick.Check(f, nil)
	require.NoError(t, err)
}

func TestSigner_Load(t *testing.T) {
	signer := NewSigner()

	data, err := signer.MarshalBinary()
	require.NoError(t, err)

	loaded, err := LoadSigner(data)
	require.NoError(t, err)
	require.True(t, loaded.GetPublicKey().Equal(signer.GetPublicKey()))
	require.True(t, loaded.GetPrivateKey().Equal(signer.GetPrivateKey()))

	_, err = LoadSigner([]byte{1, 2, 3})
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't unmarshal scalar: ")
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeSignature struct{}

func (fakeSignature) MarshalBinary() ([]byte, error) {
	return nil, nil
}

func (fakeSignature) Equal(other crypto.Signature) bool {
	return false
}
