// Package controller implements the initializer of the record program. It
// registers the program and defines the record commands.
package controller

import (
	"go.dedis.ch/recordstore/cli"
	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/contracts/record"
	sysctl "go.dedis.ch/recordstore/contracts/system/controller"
	"go.dedis.ch/recordstore/core/execution/native"
	"golang.org/x/xerrors"
)

// miniController is a CLI initializer to register the record program.
//
// - implements node.Initializer
type miniController struct{}

// NewController creates a new minimal controller for the record program.
func NewController() node.Initializer {
	return miniController{}
}

// SetCommands implements node.Initializer. It defines the record commands.
func (miniController) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("record")
	cmd.SetDescription("manage the records")

	sub := cmd.SetSubCommand("init")
	sub.SetDescription("create a record paid by the key")
	sub.SetFlags(
		keyFlag(),
		cli.StringFlag{
			Name:     "record",
			Usage:    "path of the key file of the record, created if it does not exist",
			Required: true,
		},
		dataFlag(),
	)
	sub.SetAction(builder.MakeAction(initAction{}))

	sub = cmd.SetSubCommand("update")
	sub.SetDescription("overwrite the value of a record")
	sub.SetFlags(keyFlag(), addressFlag(), dataFlag())
	sub.SetAction(builder.MakeAction(updateAction{}))

	sub = cmd.SetSubCommand("show")
	sub.SetDescription("print the value of a record")
	sub.SetFlags(addressFlag())
	sub.SetAction(builder.MakeAction(showAction{}))
}

// OnStart implements node.Initializer. It registers the record program.
func (miniController) OnStart(flags cli.Flags, inj node.Injector) error {
	var exec *native.Service
	err := inj.Resolve(&exec)
	if err != nil {
		return xerrors.Errorf("failed to resolve native service: %v", err)
	}

	record.RegisterContract(exec, record.NewContract())

	return nil
}

// OnStop implements node.Initializer.
func (miniController) OnStop(node.Injector) error {
	return nil
}

func keyFlag() cli.Flag {
	return cli.StringFlag{
		Name:    sysctl.KeyFlag,
		Usage:   "path of the key file of the payer",
		EnvVars: []string{sysctl.KeyEnv},
	}
}

func addressFlag() cli.Flag {
	return cli.StringFlag{
		Name:     "address",
		Usage:    "hexadecimal address of the record",
		Required: true,
	}
}

func dataFlag() cli.Flag {
	return cli.Uint64Flag{
		Name:     "data",
		Usage:    "value of the record",
		Required: true,
	}
}
