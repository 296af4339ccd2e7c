// Package node defines the Builder type, which builds a CLI application where
// each action runs on components started for the duration of the command.
//
// Modules are plugged with initializers: an initializer defines its commands
// and the components it injects when an action starts. The components are
// stopped in the reverse order once the action is done. See the example.
package node

import (
	"io"

	"go.dedis.ch/recordstore/cli"
)

// Builder is the builder that will be provided to the initializers, which can
// create commands and actions.
type Builder interface {
	// SetCommand creates a new command and returns its builder.
	SetCommand(name string) cli.CommandBuilder

	// SetGlobalFlags appends flags available to every command. The flags are
	// typically read by the initializers when they start.
	SetGlobalFlags(...cli.Flag)

	// MakeAction creates a CLI action from a given template. The components
	// of the initializers are started before the template is executed.
	MakeAction(ActionTemplate) cli.Action
}

// ActionTemplate is an action that has access to the injected components.
type ActionTemplate interface {
	// Execute processes a command with the components started.
	Execute(Context) error
}

// Context is the context available to the action when being invoked. It
// provides the dependency injector alongside with the output.
type Context struct {
	Injector Injector
	Flags    cli.Flags
	Out      io.Writer
}

// Injector is a dependency injection abstraction.
type Injector interface {
	// Resolve populates the input with the dependency if any compatible exists.
	Resolve(interface{}) error

	// Inject stores the dependency to be resolved later on.
	Inject(interface{})
}

// Initializer is the interface that a module can implement to set its own
// commands and inject the dependencies that will be resolved in the actions.
type Initializer interface {
	// SetCommands populates the builder with the commands of the controller.
	SetCommands(Builder)

	// OnStart starts the components of the initializer and populates the
	// injector.
	OnStart(cli.Flags, Injector) error

	// OnStop stops the components and cleans the resources.
	OnStop(Injector) error
}
