package controller

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/recordstore/cli"
	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/contracts/system"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/host"
	"go.dedis.ch/recordstore/core/txn/signed"
	"go.dedis.ch/recordstore/crypto/ed25519"
	"go.dedis.ch/recordstore/crypto/loader"
	"golang.org/x/xerrors"
)

var printer io.Writer = os.Stdout

// keygenAction creates a new key file. It does not need the host.
func keygenAction(flags cli.Flags) error {
	path := flags.Path("out")

	_, err := os.Stat(path)
	if err == nil {
		return xerrors.Errorf("file '%s' already exists", path)
	}

	signer, err := loader.LoadOrCreateSigner(loader.NewFileLoader(path))
	if err != nil {
		return xerrors.Errorf("failed to create key: %v", err)
	}

	addr, err := access.AddressOf(signer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("failed to get address: %v", err)
	}

	fmt.Fprintln(printer, addr)

	return nil
}

// addressAction prints the address of a key file.
//
// - implements node.ActionTemplate
type addressAction struct{}

// Execute implements node.ActionTemplate.
func (addressAction) Execute(ctx node.Context) error {
	signer, err := LoadKey(ctx.Flags)
	if err != nil {
		return err
	}

	addr, err := access.AddressOf(signer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("failed to get address: %v", err)
	}

	fmt.Fprintln(ctx.Out, addr)

	return nil
}

// fundAction credits lamports to an address.
//
// - implements node.ActionTemplate
type fundAction struct{}

// Execute implements node.ActionTemplate.
func (fundAction) Execute(ctx node.Context) error {
	h, err := ResolveHost(ctx)
	if err != nil {
		return err
	}

	addr, err := access.ParseAddress(ctx.Flags.String("address"))
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	err = h.Fund(addr, ctx.Flags.Uint64("lamports"))
	if err != nil {
		return err
	}

	return printAccount(ctx, h, addr)
}

// showAction prints the account of an address.
//
// - implements node.ActionTemplate
type showAction struct{}

// Execute implements node.ActionTemplate.
func (showAction) Execute(ctx node.Context) error {
	h, err := ResolveHost(ctx)
	if err != nil {
		return err
	}

	addr, err := access.ParseAddress(ctx.Flags.String("address"))
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	return printAccount(ctx, h, addr)
}

// transferAction moves lamports from the key to an address.
//
// - implements node.ActionTemplate
type transferAction struct{}

// Execute implements node.ActionTemplate.
func (transferAction) Execute(ctx node.Context) error {
	h, err := ResolveHost(ctx)
	if err != nil {
		return err
	}

	signer, err := LoadKey(ctx.Flags)
	if err != nil {
		return err
	}

	to, err := access.ParseAddress(ctx.Flags.String("to"))
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	from, err := access.AddressOf(signer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("failed to get address: %v", err)
	}

	mgr, err := NewManager(h, signer)
	if err != nil {
		return err
	}

	tx, err := system.MakeTransfer(mgr, from, to, ctx.Flags.Uint64("lamports"))
	if err != nil {
		return err
	}

	receipt, err := h.Execute(tx)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "transaction %x accepted\n", receipt.TxID)

	return nil
}

// LoadKey loads the signer of the key file given by the key flag.
func LoadKey(flags cli.Flags) (ed25519.Signer, error) {
	path := flags.Path(KeyFlag)
	if path == "" {
		return ed25519.Signer{}, xerrors.Errorf("missing --%s or %s", KeyFlag, KeyEnv)
	}

	signer, err := loader.LoadSigner(loader.NewFileLoader(path))
	if err != nil {
		return ed25519.Signer{}, xerrors.Errorf("failed to load key: %v", err)
	}

	return signer, nil
}

// ResolveHost returns the host injected by the host initializer.
func ResolveHost(ctx node.Context) (*host.Host, error) {
	var h *host.Host
	err := ctx.Injector.Resolve(&h)
	if err != nil {
		return nil, xerrors.Errorf("injector: %v", err)
	}

	return h, nil
}

// NewManager returns a transaction manager for the signer synchronized with
// the host.
func NewManager(h *host.Host, signer ed25519.Signer) (*signed.TransactionManager, error) {
	mgr := signed.NewManager(signer, h)

	err := mgr.Sync()
	if err != nil {
		return nil, xerrors.Errorf("failed to sync manager: %v", err)
	}

	return mgr, nil
}

func printAccount(ctx node.Context, h *host.Host, addr access.Address) error {
	acc, found, err := h.GetAccount(addr)
	if err != nil {
		return err
	}

	if !found {
		fmt.Fprintf(ctx.Out, "%v: empty\n", addr)
		return nil
	}

	fmt.Fprintf(ctx.Out, "%v: owner=%s lamports=%d data=%d bytes\n",
		addr, acc.Owner, acc.Lamports, len(acc.Data))

	return nil
}
