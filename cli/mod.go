// Package cli defines how the commands of recordctl are declared, independently
// of the library that parses the command line.
//
// 	cmd := builder.SetCommand("record")
// 	sub := cmd.SetSubCommand("show")
// 	sub.SetFlags(StringFlag{Name: "address", Required: true})
// 	sub.SetAction(func(flags Flags) error {
// 		return show(flags.String("address"))
// 	})
package cli

import (
	"time"
)

// Builder collects the commands and global flags of an application.
type Builder interface {
	SetCommand(name string) CommandBuilder

	// SetFlags adds flags shared by every command.
	SetFlags(...Flag)

	Build() Application
}

// Application runs the command named by the arguments.
type Application interface {
	Run(arguments []string) error
}

// CommandBuilder declares one command.
type CommandBuilder interface {
	SetDescription(value string)

	SetFlags(...Flag)

	SetAction(Action)

	// SetSubCommand declares a command nested under this one.
	SetSubCommand(name string) CommandBuilder
}

// Action runs a command with its parsed flags.
type Action func(Flags) error

// Flag is the definition of a flag.
type Flag interface {
	Flag()
}

// Flags gives access to the values of the parsed flags, falling back to the
// environment when a flag defines it.
type Flags interface {
	String(name string) string

	Duration(name string) time.Duration

	Path(name string) string

	Int(name string) int

	Uint64(name string) uint64

	Bool(name string) bool
}
