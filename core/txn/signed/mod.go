// Package signed is an implementation of the transaction abstraction.
//
// It uses signatures to make sure the identity owns the transaction and that
// the slots referenced as signers agree to it. The nonce is a monotonically
// increasing number that is used to prevent a replay attack of an existing
// transaction.
package signed

import (
	"encoding/binary"
	"io"
	"sort"

	"go.dedis.ch/recordstore"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/txn"
	"go.dedis.ch/recordstore/crypto"
	"golang.org/x/xerrors"
)

// signature is a signature of the transaction with the public key of the
// signer.
type signature struct {
	pubkey crypto.PublicKey
	sig    crypto.Signature
}

// Transaction is a signed transaction using a nonce to protect itself against
// replay attack.
//
// - implements txn.Transaction
type Transaction struct {
	nonce    uint64
	args     map[string][]byte
	accounts []txn.AccountRef
	pubkey   crypto.PublicKey
	sigs     map[access.Address]signature
	hash     []byte
}

type template struct {
	Transaction

	hashFactory crypto.HashFactory
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*template)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tmpl *template) {
		tmpl.args[key] = value
	}
}

// WithAccount is an option to reference a slot with the given access mode. The
// order of the options is the order of the references.
func WithAccount(addr access.Address, mode access.Mode) TransactionOption {
	return func(tmpl *template) {
		tmpl.accounts = append(tmpl.accounts, txn.AccountRef{
			Address: addr,
			Mode:    mode,
		})
	}
}

// WithHashFactory is an option to set a different hash factory when creating a
// transaction.
func WithHashFactory(f crypto.HashFactory) TransactionOption {
	return func(tmpl *template) {
		tmpl.hashFactory = f
	}
}

// NewTransaction creates a new transaction with the provided nonce.
func NewTransaction(nonce uint64, pk crypto.PublicKey, opts ...TransactionOption) (*Transaction, error) {
	tmpl := template{
		Transaction: Transaction{
			nonce:  nonce,
			pubkey: pk,
			args:   make(map[string][]byte),
			sigs:   make(map[access.Address]signature),
		},
		hashFactory: crypto.NewHashFactory(crypto.Sha256),
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	h := tmpl.hashFactory.New()
	err := tmpl.Fingerprint(h)
	if err != nil {
		return nil, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	tmpl.hash = h.Sum(nil)

	return &tmpl.Transaction, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t *Transaction) GetID() []byte {
	return t.hash
}

// GetNonce implements txn.Transaction. It returns the nonce of the transaction.
func (t *Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetIdentity implements txn.Transaction. It returns the public key of the
// payer.
func (t *Transaction) GetIdentity() crypto.PublicKey {
	return t.pubkey
}

// GetArgs returns the list of arguments available.
func (t *Transaction) GetArgs() []string {
	args := make([]string, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	sort.Strings(args)

	return args
}

// GetArg implements txn.Transaction. It returns the value of the argument if it
// is set, otherwise nil.
func (t *Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// GetAccounts implements txn.Transaction. It returns the references to the
// slots in order.
func (t *Transaction) GetAccounts() []txn.AccountRef {
	return append([]txn.AccountRef{}, t.accounts...)
}

// GetSignature returns the signature of the address, or nil if it has not
// signed the transaction.
func (t *Transaction) GetSignature(addr access.Address) crypto.Signature {
	return t.sigs[addr].sig
}

// Sign signs the transaction and stores the signature. The signer must be the
// payer or a slot referenced as a signer.
func (t *Transaction) Sign(signer crypto.Signer) error {
	if len(t.hash) == 0 {
		return xerrors.New("missing digest in transaction")
	}

	addr, err := access.AddressOf(signer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("signer: %v", err)
	}

	if !signer.GetPublicKey().Equal(t.pubkey) && !t.expects(addr) {
		return xerrors.Errorf("signer %v is not expected", addr)
	}

	sig, err := signer.Sign(t.hash)
	if err != nil {
		return xerrors.Errorf("signer: %v", err)
	}

	t.sigs[addr] = signature{
		pubkey: signer.GetPublicKey(),
		sig:    sig,
	}

	return nil
}

// Verify implements txn.Transaction. It returns nil if the payer and every slot
// referenced as a signer have a valid signature.
func (t *Transaction) Verify() error {
	payer, err := access.AddressOf(t.pubkey)
	if err != nil {
		return xerrors.Errorf("payer: %v", err)
	}

	err = t.verify(payer)
	if err != nil {
		return err
	}

	for _, ref := range t.accounts {
		if !ref.Mode.CanSign() {
			continue
		}

		err = t.verify(ref.Address)
		if err != nil {
			return err
		}
	}

	return nil
}

func (t *Transaction) verify(addr access.Address) error {
	s, found := t.sigs[addr]
	if !found {
		return xerrors.Errorf("missing signature of %v", addr)
	}

	err := s.pubkey.Verify(t.hash, s.sig)
	if err != nil {
		return xerrors.Errorf("invalid signature of %v: %v", addr, err)
	}

	return nil
}

func (t *Transaction) expects(addr access.Address) bool {
	for _, ref := range t.accounts {
		if ref.Address == addr && ref.Mode.CanSign() {
			return true
		}
	}

	return false
}

// Fingerprint writes a deterministic binary representation of the transaction.
func (t *Transaction) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, t.nonce)

	_, err := w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write nonce: %v", err)
	}

	// Sort the argument to deterministically write them to the hash.
	args := make(sort.StringSlice, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	sort.Sort(args)

	// Keys and values are prefixed with their length so that the boundary
	// between them cannot move.
	for _, key := range args {
		_, err = w.Write(lengthPrefixed([]byte(key), t.args[key]))
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}
	}

	for _, ref := range t.accounts {
		_, err = w.Write(append(ref.Address[:], byte(ref.Mode)))
		if err != nil {
			return xerrors.Errorf("couldn't write account: %v", err)
		}
	}

	buffer, err = t.pubkey.MarshalBinary()
	if err != nil {
		return xerrors.Errorf("failed to marshal public key: %v", err)
	}

	_, err = w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write public key: %v", err)
	}

	return nil
}

// Client is the interface the manager is using to get the nonce of an identity.
// It allows a local implementation, or through a network client.
type Client interface {
	GetNonce(access.Address) (uint64, error)
}

// TransactionManager is a manager to create signed transactions. It manages the
// nonce by itself, except if the transaction is refused by the host. In that
// case the manager should be synchronized before creating a new one.
//
// - implements txn.Manager
type TransactionManager struct {
	client  Client
	signer  crypto.Signer
	nonce   uint64
	hashFac crypto.HashFactory
}

// NewManager creates a new transaction manager.
func NewManager(signer crypto.Signer, client Client) *TransactionManager {
	return &TransactionManager{
		client:  client,
		signer:  signer,
		nonce:   0,
		hashFac: crypto.NewHashFactory(crypto.Sha256),
	}
}

// Make implements txn.Manager. It creates a transaction populated with the
// references and the arguments, and signed by the manager and the signers.
func (mgr *TransactionManager) Make(accounts []txn.AccountRef, signers []crypto.Signer,
	args ...txn.Arg) (txn.Transaction, error) {

	opts := make([]TransactionOption, 0, len(accounts)+len(args)+1)
	for _, ref := range accounts {
		opts = append(opts, WithAccount(ref.Address, ref.Mode))
	}

	for _, arg := range args {
		opts = append(opts, WithArg(arg.Key, arg.Value))
	}

	opts = append(opts, WithHashFactory(mgr.hashFac))

	tx, err := NewTransaction(mgr.nonce, mgr.signer.GetPublicKey(), opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to create tx: %v", err)
	}

	for _, signer := range append([]crypto.Signer{mgr.signer}, signers...) {
		err = tx.Sign(signer)
		if err != nil {
			return nil, xerrors.Errorf("failed to sign: %v", err)
		}
	}

	mgr.nonce++

	return tx, nil
}

// Sync implements txn.Manager. It fetches the latest nonce of the signer to
// create valid transactions.
func (mgr *TransactionManager) Sync() error {
	addr, err := access.AddressOf(mgr.signer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("signer: %v", err)
	}

	nonce, err := mgr.client.GetNonce(addr)
	if err != nil {
		return xerrors.Errorf("client: %v", err)
	}

	mgr.nonce = nonce

	recordstore.Logger.Debug().Uint64("nonce", nonce).Msg("manager synchronized")

	return nil
}

func lengthPrefixed(fields ...[]byte) []byte {
	var out []byte

	for _, field := range fields {
		size := make([]byte, 4)
		binary.LittleEndian.PutUint32(size, uint32(len(field)))

		out = append(out, size...)
		out = append(out, field...)
	}

	return out
}

