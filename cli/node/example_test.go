package node

import (
	"fmt"
	"os"

	"go.dedis.ch/tally/cli"
)

func ExampleCLIBuilder_Build() {
	builder := NewBuilder("example", &ballotController{})

	cmd := builder.SetCommand("version")

	// This action does not need the components of the node.
	cmd.SetAction(func(flags cli.Flags) error {
		fmt.Println("example 1.0")
		return nil
	})

	app := builder.Build()

	err := app.Run([]string{os.Args[0], "version"})
	if err != nil {
		panic("app failed: " + err.Error())
	}

	err = app.Run([]string{os.Args[0], "count", "--option", "yes"})
	if err != nil {
		panic("app failed: " + err.Error())
	}

	// Output: example 1.0
	// opened the ballot box
	// counted one vote for yes
	// closed the ballot box
}

// ballotBox is an example of a component injected by a controller and
// resolved by an action.
type ballotBox struct {
	votes map[string]int
}

// countAction is an example of an action template.
//
// - implements node.ActionTemplate
type countAction struct{}

// Execute implements node.ActionTemplate. It resolves the ballot box and adds
// a vote for the option of the flag.
func (countAction) Execute(ctx Context) error {
	var box *ballotBox
	err := ctx.Injector.Resolve(&box)
	if err != nil {
		return err
	}

	option := ctx.Flags.String("option")
	box.votes[option]++

	fmt.Printf("counted one vote for %s\n", option)

	return nil
}

// ballotController is an example of a controller passed to the builder. It
// defines the commands and the components available to the actions.
//
// - implements node.Initializer
type ballotController struct{}

// SetCommands implements node.Initializer.
func (*ballotController) SetCommands(builder Builder) {
	cmd := builder.SetCommand("count")
	cmd.SetDescription("Count a vote")
	cmd.SetFlags(cli.StringFlag{
		Name:     "option",
		Usage:    "set the option of the vote",
		Required: true,
	})
	cmd.SetAction(builder.MakeAction(countAction{}))
}

// OnStart implements node.Initializer. It injects an empty ballot box.
func (*ballotController) OnStart(flags cli.Flags, inj Injector) error {
	inj.Inject(&ballotBox{votes: make(map[string]int)})

	fmt.Println("opened the ballot box")

	return nil
}

// OnStop implements node.Initializer.
func (*ballotController) OnStop(Injector) error {
	fmt.Println("closed the ballot box")

	return nil
}
