// Package controller implements the initializer of the host. It starts a host
// on the database and exposes the metrics command.
package controller

import (
	"go.dedis.ch/recordstore/cli"
	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/core/execution/native"
	"go.dedis.ch/recordstore/core/host"
	"go.dedis.ch/recordstore/core/store/kv"
	"golang.org/x/xerrors"
)

// GenesisFlag is the name of the flag for the path of the genesis file.
const GenesisFlag = "genesis"

// minimal is the initializer of the host.
//
// - implements node.Initializer
type minimal struct{}

// NewMinimal returns the initializer of the host.
func NewMinimal() node.Initializer {
	return minimal{}
}

// SetCommands implements node.Initializer. It defines the genesis flag and the
// metrics command.
func (minimal) SetCommands(builder node.Builder) {
	builder.SetGlobalFlags(cli.StringFlag{
		Name:    GenesisFlag,
		Usage:   "path to a YAML genesis file applied on the first start",
		EnvVars: []string{"RECORDSTORE_GENESIS"},
	})

	cmd := builder.SetCommand("metrics")
	cmd.SetDescription("print the metrics of the host in the Prometheus text format")
	cmd.SetAction(builder.MakeAction(metricsAction{}))
}

// OnStart implements node.Initializer. It creates the host on the database and
// injects it alongside the native execution service where the programs are
// registered.
func (minimal) OnStart(flags cli.Flags, inj node.Injector) error {
	var db kv.DB
	err := inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	exec := native.NewExecution()
	h := host.NewHost(host.NewDiskStorage(db), exec)

	path := flags.Path(GenesisFlag)
	if path != "" {
		genesis, err := host.LoadGenesis(path)
		if err != nil {
			return xerrors.Errorf("genesis: %v", err)
		}

		_, err = h.ApplyGenesis(genesis)
		if err != nil {
			return xerrors.Errorf("genesis: %v", err)
		}
	}

	err = h.RestoreMetrics()
	if err != nil {
		return xerrors.Errorf("metrics: %v", err)
	}

	inj.Inject(exec)
	inj.Inject(h)

	return nil
}

// OnStop implements node.Initializer.
func (minimal) OnStop(node.Injector) error {
	return nil
}
