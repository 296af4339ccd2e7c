package controller

import (
	"fmt"

	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/contracts/record"
	sysctl "go.dedis.ch/recordstore/contracts/system/controller"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/crypto/loader"
	"golang.org/x/xerrors"
)

// initAction creates a record.
//
// - implements node.ActionTemplate
type initAction struct{}

// Execute implements node.ActionTemplate. It loads or creates the key of the
// record and executes the initialize command paid by the key of the payer.
func (initAction) Execute(ctx node.Context) error {
	h, err := sysctl.ResolveHost(ctx)
	if err != nil {
		return err
	}

	payer, err := sysctl.LoadKey(ctx.Flags)
	if err != nil {
		return err
	}

	slot, err := loader.LoadOrCreateSigner(loader.NewFileLoader(ctx.Flags.Path("record")))
	if err != nil {
		return xerrors.Errorf("failed to load record key: %v", err)
	}

	payerAddr, err := access.AddressOf(payer.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("failed to get address: %v", err)
	}

	addr, err := access.AddressOf(slot.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("failed to get address: %v", err)
	}

	mgr, err := sysctl.NewManager(h, payer)
	if err != nil {
		return err
	}

	tx, err := record.MakeInitialize(mgr, payerAddr, slot, ctx.Flags.Uint64("data"))
	if err != nil {
		return err
	}

	_, err = h.Execute(tx)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "record %v initialized\n", addr)

	return nil
}

// updateAction overwrites the value of a record.
//
// - implements node.ActionTemplate
type updateAction struct{}

// Execute implements node.ActionTemplate.
func (updateAction) Execute(ctx node.Context) error {
	h, err := sysctl.ResolveHost(ctx)
	if err != nil {
		return err
	}

	payer, err := sysctl.LoadKey(ctx.Flags)
	if err != nil {
		return err
	}

	addr, err := access.ParseAddress(ctx.Flags.String("address"))
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	mgr, err := sysctl.NewManager(h, payer)
	if err != nil {
		return err
	}

	tx, err := record.MakeUpdate(mgr, addr, ctx.Flags.Uint64("data"))
	if err != nil {
		return err
	}

	_, err = h.Execute(tx)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "record %v updated\n", addr)

	return nil
}

// showAction prints the value of a record.
//
// - implements node.ActionTemplate
type showAction struct{}

// Execute implements node.ActionTemplate.
func (showAction) Execute(ctx node.Context) error {
	h, err := sysctl.ResolveHost(ctx)
	if err != nil {
		return err
	}

	addr, err := access.ParseAddress(ctx.Flags.String("address"))
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	var rec record.Record

	err = h.View(func(r store.Readable) error {
		rec, err = record.Fetch(r, addr)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, rec.Data)

	return nil
}
