// Package node defines the Builder type, which builds a CLI application to
// control a node.
//
// A node is made of initializers that set up their components when a command
// runs. The components are shared through an injector with the actions of the
// commands, and stopped once the action returns. See the example.
package node

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.dedis.ch/tally/cli"
)

// Builder is the builder that will be provided to the initializers, which can
// create commands and actions.
type Builder interface {
	// SetCommand creates a new command and returns its builder.
	SetCommand(name string) cli.CommandBuilder

	// SetGlobalFlags appends a list of flags that are available from all the
	// commands.
	SetGlobalFlags(...cli.Flag)

	// MakeAction creates a CLI action from a given template. The components of
	// the initializers are started before the template is executed.
	MakeAction(ActionTemplate) cli.Action
}

// ActionTemplate is an extension of the cli.Action interface to allow an action
// to use the components of the node.
type ActionTemplate interface {
	// Execute processes a command with the components of the node.
	Execute(Context) error
}

// Context is the context available to the action when being invoked. It
// provides the dependency injector alongside with the input and output.
type Context struct {
	Injector Injector
	Flags    cli.Flags
	Out      io.Writer

	sigs         chan os.Signal
	enableSignal bool
}

// WaitInterrupt blocks until the process is interrupted, or until the signal
// channel given to the builder is closed.
func (ctx Context) WaitInterrupt() {
	if ctx.sigs == nil {
		return
	}

	if ctx.enableSignal {
		signal.Notify(ctx.sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ctx.sigs)
	}

	<-ctx.sigs
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
