// Package host implements the runtime the programs are executed on.
//
// The host authenticates the transactions, checks the nonce of the payer and
// gives the program a handle for every referenced slot. The program runs on a
// staging snapshot that is committed with the new nonce only when the
// execution succeeds, so that a failed invocation leaves no change behind.
//
// Invocations are serialized: the host executes one transaction at a time.
package host

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/recordstore"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/account"
	"go.dedis.ch/recordstore/core/execution"
	"go.dedis.ch/recordstore/core/execution/native"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/store/mem"
	"go.dedis.ch/recordstore/core/store/prefixed"
	"go.dedis.ch/recordstore/core/txn"
	"golang.org/x/xerrors"
)

// DefaultMaxDepth is the default limit of nested invocations.
const DefaultMaxDepth = 4

const noncePrefix = "nonces"

// Receipt is the outcome of a transaction execution.
type Receipt struct {
	// ID is the unique identifier of the invocation.
	ID xid.ID

	// TxID is the identifier of the transaction.
	TxID []byte

	// Program is the name of the program the transaction targets.
	Program string

	// Accepted is true when the changes of the transaction are committed.
	Accepted bool

	// Message explains why the transaction is rejected.
	Message string
}

// Host executes the transactions on a storage.
type Host struct {
	sync.Mutex

	storage  Storage
	exec     execution.Service
	logger   zerolog.Logger
	maxDepth int
	watcher  *watcher
}

// Option is the type of options to create a host.
type Option func(*Host)

// WithLogger sets the logger of the host.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithMaxDepth sets the limit of nested invocations.
func WithMaxDepth(depth int) Option {
	return func(h *Host) {
		h.maxDepth = depth
	}
}

// NewHost creates a host that runs the programs of the execution service on
// the storage.
func NewHost(storage Storage, exec execution.Service, opts ...Option) *Host {
	h := &Host{
		storage:  storage,
		exec:     exec,
		logger:   recordstore.Logger.With().Str("component", "host").Logger(),
		maxDepth: DefaultMaxDepth,
		watcher:  newWatcher(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Execute executes the transaction. The changes of the program are committed
// only if the transaction is accepted, in which case the nonce of the payer is
// incremented. The error of a rejected transaction wraps the cause so that it
// can be matched with xerrors.Is.
func (h *Host) Execute(tx txn.Transaction) (Receipt, error) {
	h.Lock()
	defer h.Unlock()

	receipt := Receipt{
		ID:      xid.New(),
		TxID:    tx.GetID(),
		Program: string(tx.GetArg(native.ContractArg)),
	}

	logger := h.logger.With().
		Stringer("invocation", receipt.ID).
		Hex("tx", receipt.TxID).
		Str("program", receipt.Program).
		Logger()

	err := h.storage.Update(func(snap store.Snapshot) error {
		return h.execute(snap, tx)
	})

	if err != nil {
		receipt.Message = err.Error()

		h.count(receipt.Program, resultRejected)
		logger.Info().Err(err).Msg("transaction rejected")

		h.watcher.notify(receipt)

		return receipt, xerrors.Errorf("transaction %x rejected: %w", receipt.TxID, err)
	}

	receipt.Accepted = true

	h.count(receipt.Program, resultAccepted)
	logger.Debug().Msg("transaction accepted")

	h.watcher.notify(receipt)

	return receipt, nil
}

func (h *Host) execute(snap store.Snapshot, tx txn.Transaction) error {
	err := tx.Verify()
	if err != nil {
		return account.Reject("invalid transaction: %v", err)
	}

	payer, err := access.AddressOf(tx.GetIdentity())
	if err != nil {
		return account.Reject("invalid identity: %v", err)
	}

	nonce, err := readNonce(snap, payer)
	if err != nil {
		return err
	}

	if tx.GetNonce() != nonce {
		return account.Reject("nonce %d does not match the expected %d", tx.GetNonce(), nonce)
	}

	refs := tx.GetAccounts()
	seen := make(map[access.Address]struct{}, len(refs))

	for _, ref := range refs {
		_, found := seen[ref.Address]
		if found {
			return account.Reject("slot %v referenced twice", ref.Address)
		}

		seen[ref.Address] = struct{}{}
	}

	program := string(tx.GetArg(native.ContractArg))
	overlay := mem.NewSnapshot(snap)

	handles := make([]account.Handle, len(refs))
	for i, ref := range refs {
		handles[i] = account.NewHandle(overlay, ref.Address, ref.Mode, program)
	}

	step := execution.Step{
		Current:  tx,
		Accounts: handles,
		Invoker: invoker{
			exec:     h.exec,
			snap:     overlay,
			parent:   tx,
			maxDepth: h.maxDepth,
		},
	}

	err = run(h.exec, overlay, step)
	if err != nil {
		return err
	}

	err = overlay.Apply(snap)
	if err != nil {
		return xerrors.Errorf("failed to commit: %v", err)
	}

	return writeNonce(snap, payer, nonce+1)
}

// Watch returns a channel populated with the receipts of the transactions
// executed after the call, until the context is done.
func (h *Host) Watch(ctx context.Context) <-chan Receipt {
	return h.watcher.Watch(ctx)
}

// View runs the callback with a read-only view of the state.
func (h *Host) View(fn func(store.Readable) error) error {
	return h.storage.View(fn)
}

// GetAccount returns the account of the slot and true, or false if the slot
// is empty.
func (h *Host) GetAccount(addr access.Address) (account.Account, bool, error) {
	var acc account.Account
	var found bool

	err := h.storage.View(func(r store.Readable) error {
		var err error
		acc, found, err = account.Read(r, addr)

		return err
	})

	if err != nil {
		return account.Account{}, false, xerrors.Errorf("failed to read: %v", err)
	}

	return acc, found, nil
}

// GetNonce returns the nonce the next transaction of the identity must have.
//
// - implements signed.Client
func (h *Host) GetNonce(addr access.Address) (uint64, error) {
	var nonce uint64

	err := h.storage.View(func(r store.Readable) error {
		var err error
		nonce, err = readNonce(r, addr)

		return err
	})

	if err != nil {
		return 0, xerrors.Errorf("failed to read: %v", err)
	}

	return nonce, nil
}

// Fund credits lamports to the slot out of thin air. An empty slot becomes an
// account of the system program.
func (h *Host) Fund(addr access.Address, lamports uint64) error {
	h.Lock()
	defer h.Unlock()

	err := h.storage.Update(func(snap store.Snapshot) error {
		return credit(snap, addr, lamports)
	})

	if err != nil {
		return xerrors.Errorf("failed to fund: %w", err)
	}

	h.logger.Info().
		Stringer("slot", addr).
		Uint64("lamports", lamports).
		Msg("slot funded")

	return nil
}

func credit(snap store.Snapshot, addr access.Address, lamports uint64) error {
	acc, found, err := account.Read(snap, addr)
	if err != nil {
		return err
	}

	if !found {
		acc = account.Account{Owner: account.SystemOwner}
	}

	err = acc.Credit(lamports)
	if err != nil {
		return xerrors.Errorf("slot %v: %w", addr, err)
	}

	return account.Write(snap, addr, acc)
}

// run executes the step and returns the cause of the failure, if any. The
// program only reads the snapshot: every write goes through the handles of the
// step.
func run(exec execution.Service, snap store.Snapshot, step execution.Step) error {
	res, err := exec.Execute(readOnly{Readable: snap}, step)
	if err != nil {
		return account.Reject("%v", err)
	}

	if !res.Accepted {
		if res.Err != nil {
			return res.Err
		}

		return account.Reject("%s", res.Message)
	}

	return nil
}

// invoker runs the nested invocations on the staging snapshot of the
// transaction.
//
// - implements execution.Invoker
type invoker struct {
	exec     execution.Service
	snap     store.Snapshot
	parent   txn.Transaction
	depth    int
	maxDepth int
}

// Invoke implements execution.Invoker. The handles are issued to the callee
// with the same access modes.
func (inv invoker) Invoke(program string, accounts []account.Handle, args ...txn.Arg) error {
	if inv.depth >= inv.maxDepth {
		return account.Reject("maximum invocation depth %d reached", inv.maxDepth)
	}

	handles := make([]account.Handle, len(accounts))
	for i, h := range accounts {
		handles[i] = account.NewHandle(inv.snap, h.GetAddress(), h.GetMode(), program)
	}

	callArgs := make([]txn.Arg, 0, len(args)+1)
	callArgs = append(callArgs, args...)
	callArgs = append(callArgs, txn.Arg{Key: native.ContractArg, Value: []byte(program)})

	next := inv
	next.depth++

	step := execution.Step{
		Current:  execution.NewCall(inv.parent, callArgs...),
		Accounts: handles,
		Invoker:  next,
	}

	return run(inv.exec, inv.snap, step)
}

func readNonce(r store.Readable, addr access.Address) (uint64, error) {
	value, err := prefixed.NewReadable(noncePrefix, r).Get(addr[:])
	if err != nil {
		return 0, xerrors.Errorf("failed to read nonce of %v: %v", addr, err)
	}

	if value == nil {
		return 0, nil
	}

	if len(value) != 8 {
		return 0, xerrors.Errorf("malformed nonce of %v", addr)
	}

	return binary.LittleEndian.Uint64(value), nil
}

func writeNonce(snap store.Snapshot, addr access.Address, nonce uint64) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, nonce)

	err := prefixed.NewSnapshot(noncePrefix, snap).Set(addr[:], buffer)
	if err != nil {
		return xerrors.Errorf("failed to write nonce of %v: %v", addr, err)
	}

	return nil
}

// readOnly is the snapshot given to the programs.
//
// - implements store.Snapshot
type readOnly struct {
	store.Readable
}

// Set implements store.Writable. It always fails.
func (readOnly) Set(key, value []byte) error {
	return account.Reject("programs write through their handles")
}

// Delete implements store.Writable. It always fails.
func (readOnly) Delete(key []byte) error {
	return account.Reject("programs write through their handles")
}
