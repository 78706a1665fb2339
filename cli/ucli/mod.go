// Package ucli implements the cli builder on top of urfave/cli.
package ucli

import (
	"fmt"
	"io"

	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/tally/cli"
)

// Builder builds an urfave application out of the commands and the flags
// declared by the controllers.
//
// - implements cli.Builder
type Builder struct {
	name     string
	action   cli.Action
	flags    []cli.Flag
	commands []*cmdBuilder
	writer   io.Writer
}

// NewBuilder returns a new builder. The action is run when no command is
// given and can be nil. The flags are global and can be read from any
// command.
func NewBuilder(name string, action cli.Action, flags ...cli.Flag) cli.Builder {
	return &Builder{
		name:   name,
		action: action,
		flags:  flags,
	}
}

// SetFlags appends global flags.
func (b *Builder) SetFlags(flags ...cli.Flag) {
	b.flags = append(b.flags, flags...)
}

// SetWriter sets the output of the help and the usage messages.
func (b *Builder) SetWriter(w io.Writer) {
	b.writer = w
}

// SetCommand implements cli.Builder.
func (b *Builder) SetCommand(name string) cli.CommandBuilder {
	cmd := &cmdBuilder{name: name}
	b.commands = append(b.commands, cmd)

	return cmd
}

// Build implements cli.Builder.
func (b *Builder) Build() cli.Application {
	commands := make([]*urfave.Command, len(b.commands))
	for i, cmd := range b.commands {
		commands[i] = &urfave.Command{
			Name:   cmd.name,
			Usage:  cmd.description,
			Action: makeAction(cmd.action),
			Flags:  convertFlags(cmd.flags),
		}
	}

	app := &urfave.App{
		Name:     b.name,
		Commands: commands,
		Action:   makeAction(b.action),
		Flags:    convertFlags(b.flags),
	}

	if b.writer != nil {
		app.Writer = b.writer
	}

	app.Setup()

	return app
}

// cmdBuilder holds the definition of a command until the application is
// built.
//
// - implements cli.CommandBuilder
type cmdBuilder struct {
	name        string
	description string
	action      cli.Action
	flags       []cli.Flag
}

// SetDescription implements cli.CommandBuilder.
func (b *cmdBuilder) SetDescription(value string) {
	b.description = value
}

// SetFlags implements cli.CommandBuilder. It appends the flags to the ones
// already set.
func (b *cmdBuilder) SetFlags(flags ...cli.Flag) {
	b.flags = append(b.flags, flags...)
}

// SetAction implements cli.CommandBuilder.
func (b *cmdBuilder) SetAction(action cli.Action) {
	b.action = action
}

// convertFlags returns the urfave definitions of the flags. It panics when a
// flag has an unknown type as it is a programming error.
func convertFlags(flags []cli.Flag) []urfave.Flag {
	res := make([]urfave.Flag, len(flags))

	for i, f := range flags {
		switch e := f.(type) {
		case cli.StringFlag:
			res[i] = &urfave.StringFlag{
				Name:     e.Name,
				Usage:    e.Usage,
				EnvVars:  envVars(e.Env),
				Required: e.Required,
				Value:    e.Value,
			}
		case cli.BoolFlag:
			res[i] = &urfave.BoolFlag{
				Name:    e.Name,
				Usage:   e.Usage,
				EnvVars: envVars(e.Env),
			}
		default:
			panic(fmt.Sprintf("flag type '%T' not supported", f))
		}
	}

	return res
}

func envVars(name string) []string {
	if name == "" {
		return nil
	}

	return []string{name}
}

// makeAction transforms a cli.Action to its urfave form.
func makeAction(action cli.Action) urfave.ActionFunc {
	if action == nil {
		return nil
	}

	return func(ctx *urfave.Context) error {
		return action(ctx)
	}
}
