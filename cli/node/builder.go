package node

import (
	"io"
	"os"

	"go.dedis.ch/tally"
	"go.dedis.ch/tally/cli"
	"go.dedis.ch/tally/cli/ucli"
	"golang.org/x/xerrors"
)

// CLIBuilder is an application builder that will build a CLI to control a
// node.
//
// - implements node.Builder
// - implements cli.Builder
type CLIBuilder struct {
	*ucli.Builder

	inits  []Initializer
	writer io.Writer

	// In production, an action waiting for an interruption is stopped via
	// SIGINT or SIGTERM. In case of testing, the channel is closed instead.
	enableSignal bool
	sigs         chan os.Signal
}

// NewBuilder returns a new empty builder.
func NewBuilder(name string, inits ...Initializer) *CLIBuilder {
	return NewBuilderWithCfg(name, nil, nil, inits...)
}

// NewBuilderWithCfg returns a new empty builder with specific configurations.
func NewBuilderWithCfg(name string, sigs chan os.Signal, out io.Writer,
	inits ...Initializer) *CLIBuilder {

	if out == nil {
		out = os.Stdout
	}

	enabled := false

	if sigs == nil {
		sigs = make(chan os.Signal, 1)
		enabled = true
	}

	builder := ucli.NewBuilder(name, nil).(*ucli.Builder)
	builder.SetWriter(out)

	return &CLIBuilder{
		Builder:      builder,
		inits:        inits,
		writer:       out,
		enableSignal: enabled,
		sigs:         sigs,
	}
}

// SetGlobalFlags implements node.Builder.
func (b *CLIBuilder) SetGlobalFlags(flags ...cli.Flag) {
	b.Builder.SetFlags(flags...)
}

// MakeAction implements node.Builder. It creates a CLI action from the
// template. The initializers are started in order before the template is
// executed, and stopped in reverse order after it.
func (b *CLIBuilder) MakeAction(tmpl ActionTemplate) cli.Action {
	return func(flags cli.Flags) error {
		inj := NewInjector()

		for i, init := range b.inits {
			err := init.OnStart(flags, inj)
			if err != nil {
				b.stop(b.inits[:i], inj)

				return xerrors.Errorf("couldn't run the controller: %v", err)
			}
		}

		ctx := Context{
			Injector:     inj,
			Flags:        flags,
			Out:          b.writer,
			sigs:         b.sigs,
			enableSignal: b.enableSignal,
		}

		err := tmpl.Execute(ctx)

		stopErr := b.stop(b.inits, inj)

		if err != nil {
			return err
		}

		if stopErr != nil {
			return xerrors.Errorf("couldn't stop controller: %v", stopErr)
		}

		return nil
	}
}

// Build implements cli.Builder. It returns the application.
func (b *CLIBuilder) Build() cli.Application {
	for _, controller := range b.inits {
		controller.SetCommands(b)
	}

	return b.Builder.Build()
}

// stop stops the initializers in reverse order so that high level components
// are stopped before lower level ones (i.e. stop a service before the database
// to avoid errors). It returns the first error but stops every initializer.
func (b *CLIBuilder) stop(inits []Initializer, inj Injector) error {
	var first error

	for i := len(inits) - 1; i >= 0; i-- {
		err := inits[i].OnStop(inj)
		if err != nil {
			tally.Logger.Warn().Err(err).Msg("failed to stop controller")

			if first == nil {
				first = err
			}
		}
	}

	return first
}
