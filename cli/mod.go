// Package cli defines the abstraction used by the controllers to declare their
// commands without depending on a specific command-line library.
//
//	builder := ucli.NewBuilder("tally", nil)
//
//	cmd := builder.SetCommand("query")
//	cmd.SetDescription("read the state of the contract")
//	cmd.SetFlags(cli.StringFlag{Name: "msg", Required: true})
//	cmd.SetAction(func(flags cli.Flags) error {
//		fmt.Println(flags.String("msg"))
//		return nil
//	})
//
//	builder.Build().Run(os.Args)
package cli

// Builder is an application builder interface. One can set properties of an
// application then build it.
type Builder interface {
	// SetCommand creates a new command with the given name and returns its
	// builder.
	SetCommand(name string) CommandBuilder

	// Build returns the application.
	Build() Application
}

// Application is the main interface to run the CLI.
type Application interface {
	Run(arguments []string) error
}

// CommandBuilder defines the properties of a single command.
type CommandBuilder interface {
	// SetDescription sets the one-line description shown in the help.
	SetDescription(value string)

	// SetFlags sets the flags of the command.
	SetFlags(...Flag)

	// SetAction sets the function called when the command is invoked.
	SetAction(Action)
}

// Action is a function that will be executed when a command is invoked.
type Action func(Flags) error

// Flag is an identifier for the definition of the flags.
type Flag interface {
	Flag()
}

// Flags provides the primitives to an action to read the flags. A flag that
// is not set returns its default value, or the zero value of its type.
type Flags interface {
	String(name string) string

	Bool(name string) bool
}
