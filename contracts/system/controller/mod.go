// Package controller implements the initializer of the system program. It
// registers the program and defines the account commands.
package controller

import (
	"go.dedis.ch/recordstore/cli"
	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/contracts/system"
	"go.dedis.ch/recordstore/core/execution/native"
	"golang.org/x/xerrors"
)

// KeyFlag is the name of the flag for the key file of the payer. It is shared
// with the other programs.
const KeyFlag = "key"

// KeyEnv is the environment variable read when the key flag is missing.
const KeyEnv = "RECORDSTORE_KEY"

// miniController is a CLI initializer to register the system program.
//
// - implements node.Initializer
type miniController struct{}

// NewController creates a new minimal controller for the system program.
func NewController() node.Initializer {
	return miniController{}
}

// SetCommands implements node.Initializer. It defines the account commands.
func (miniController) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("account")
	cmd.SetDescription("manage the accounts")

	sub := cmd.SetSubCommand("keygen")
	sub.SetDescription("generate a new key and print its address")
	sub.SetFlags(cli.StringFlag{
		Name:     "out",
		Usage:    "path of the key file to create",
		Required: true,
	})
	sub.SetAction(keygenAction)

	sub = cmd.SetSubCommand("address")
	sub.SetDescription("print the address of a key")
	sub.SetFlags(keyFlag())
	sub.SetAction(builder.MakeAction(addressAction{}))

	sub = cmd.SetSubCommand("fund")
	sub.SetDescription("credit lamports to an address")
	sub.SetFlags(
		cli.StringFlag{
			Name:     "address",
			Usage:    "hexadecimal address of the slot",
			Required: true,
		},
		cli.Uint64Flag{
			Name:     "lamports",
			Usage:    "amount to credit",
			Required: true,
		},
	)
	sub.SetAction(builder.MakeAction(fundAction{}))

	sub = cmd.SetSubCommand("show")
	sub.SetDescription("print the account of an address")
	sub.SetFlags(cli.StringFlag{
		Name:     "address",
		Usage:    "hexadecimal address of the slot",
		Required: true,
	})
	sub.SetAction(builder.MakeAction(showAction{}))

	sub = cmd.SetSubCommand("transfer")
	sub.SetDescription("transfer lamports from the key to an address")
	sub.SetFlags(
		keyFlag(),
		cli.StringFlag{
			Name:     "to",
			Usage:    "hexadecimal address of the recipient",
			Required: true,
		},
		cli.Uint64Flag{
			Name:     "lamports",
			Usage:    "amount to transfer",
			Required: true,
		},
	)
	sub.SetAction(builder.MakeAction(transferAction{}))
}

// OnStart implements node.Initializer. It registers the system program.
func (miniController) OnStart(flags cli.Flags, inj node.Injector) error {
	var exec *native.Service
	err := inj.Resolve(&exec)
	if err != nil {
		return xerrors.Errorf("failed to resolve native service: %v", err)
	}

	system.RegisterContract(exec, system.NewContract())

	return nil
}

// OnStop implements node.Initializer.
func (miniController) OnStop(node.Injector) error {
	return nil
}

func keyFlag() cli.Flag {
	return cli.StringFlag{
		Name:    KeyFlag,
		Usage:   "path of the key file of the payer",
		EnvVars: []string{KeyEnv},
	}
}
