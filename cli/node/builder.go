package node

import (
	"io"
	"os"

	"go.dedis.ch/recordstore"
	"go.dedis.ch/recordstore/cli"
	"go.dedis.ch/recordstore/cli/ucli"
	"golang.org/x/xerrors"
)

// CLIBuilder is an application builder that starts the initializers around
// each action.
//
// - implements node.Builder
// - implements cli.Builder
type CLIBuilder struct {
	*ucli.Builder

	inits  []Initializer
	writer io.Writer
}

// NewBuilder returns a new empty builder.
func NewBuilder(name string, inits ...Initializer) *CLIBuilder {
	return NewBuilderWithCfg(name, nil, inits...)
}

// NewBuilderWithCfg returns a new empty builder that writes the output of the
// actions to the writer, or to the standard output if it is nil.
func NewBuilderWithCfg(name string, out io.Writer, inits ...Initializer) *CLIBuilder {
	if out == nil {
		out = os.Stdout
	}

	return &CLIBuilder{
		Builder: ucli.NewBuilder(name, nil, ucli.WithWriter(out)),
		inits:   inits,
		writer:  out,
	}
}

// SetGlobalFlags implements node.Builder.
func (b *CLIBuilder) SetGlobalFlags(flags ...cli.Flag) {
	b.Builder.SetFlags(flags...)
}

// MakeAction implements node.Builder. It creates a CLI action that starts the
// initializers, executes the template and stops the initializers.
func (b *CLIBuilder) MakeAction(tmpl ActionTemplate) cli.Action {
	return func(flags cli.Flags) error {
		injector := NewInjector()

		started := 0
		var err error

		for _, init := range b.inits {
			err = init.OnStart(flags, injector)
			if err != nil {
				err = xerrors.Errorf("couldn't run the controller: %v", err)
				break
			}

			started++
		}

		if err == nil {
			ctx := Context{
				Injector: injector,
				Flags:    flags,
				Out:      b.writer,
			}

			err = tmpl.Execute(ctx)
		}

		// Controllers are stopped in reverse order so that high level
		// components are stopped before lower level ones (i.e. stop a service
		// before the database to avoid errors).
		for i := started - 1; i >= 0; i-- {
			stopErr := b.inits[i].OnStop(injector)
			if stopErr != nil && err == nil {
				err = xerrors.Errorf("couldn't stop controller: %v", stopErr)
			}
		}

		recordstore.Logger.Trace().Msg("components have been stopped")

		return err
	}
}

// Build implements cli.Builder. It returns the application.
func (b *CLIBuilder) Build() cli.Application {
	for _, controller := range b.inits {
		controller.SetCommands(b)
	}

	return b.Builder.Build()
}
