package ucli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/tally/cli"
)

func TestBuilder_Build(t *testing.T) {
	builder := NewBuilder("test", nil).(*Builder)
	builder.SetWriter(io.Discard)

	builder.SetCommand("instantiate")
	builder.SetCommand("query")

	app := builder.Build().(*urfave.App)
	require.Equal(t, "test", app.Name)
	require.Equal(t, io.Discard, app.Writer)

	require.Len(t, app.Commands, 3)
	require.Equal(t, "instantiate", app.Commands[0].Name)
	require.Equal(t, "query", app.Commands[1].Name)
	require.Equal(t, "help", app.Commands[2].Name)

	err := app.Run([]string{"test"})
	require.NoError(t, err)
}

func TestBuilder_SetFlags(t *testing.T) {
	builder := NewBuilder("test", nil, cli.StringFlag{Name: "config"}).(*Builder)
	builder.SetFlags(cli.StringFlag{Name: "db"}, cli.BoolFlag{Name: "allow"})

	app := builder.Build().(*urfave.App)
	require.Equal(t, []string{"config", "db", "allow"}, flagNames(app.Flags))
}

func TestBuilder_GlobalFlagsFromCommand(t *testing.T) {
	builder := NewBuilder("test", nil, cli.StringFlag{Name: "db", Value: "default.db"}).(*Builder)
	builder.SetWriter(io.Discard)

	var db, msg string

	cmd := builder.SetCommand("query")
	cmd.SetFlags(cli.StringFlag{Name: "msg", Required: true})
	cmd.SetAction(func(flags cli.Flags) error {
		db = flags.String("db")
		msg = flags.String("msg")
		return nil
	})

	err := builder.Build().Run([]string{"test", "--db", "/tmp/x.db", "query", "--msg", "{}"})
	require.NoError(t, err)
	require.Equal(t, "/tmp/x.db", db)
	require.Equal(t, "{}", msg)

	err = builder.Build().Run([]string{"test", "query", "--msg", "{}"})
	require.NoError(t, err)
	require.Equal(t, "default.db", db)

	err = builder.Build().Run([]string{"test", "query"})
	require.EqualError(t, err, `Required flag "msg" not set`)
}

func TestBuilder_FlagsFromEnv(t *testing.T) {
	t.Setenv("TEST_DB", "env.db")
	t.Setenv("TEST_ALLOW", "true")

	builder := NewBuilder("test", nil,
		cli.StringFlag{Name: "db", Env: "TEST_DB"},
		cli.BoolFlag{Name: "allow", Env: "TEST_ALLOW"},
	).(*Builder)

	var db string
	var allow bool

	cmd := builder.SetCommand("run")
	cmd.SetAction(func(flags cli.Flags) error {
		db = flags.String("db")
		allow = flags.Bool("allow")
		return nil
	})

	err := builder.Build().Run([]string{"test", "run"})
	require.NoError(t, err)
	require.Equal(t, "env.db", db)
	require.True(t, allow)

	err = builder.Build().Run([]string{"test", "--db", "flag.db", "run"})
	require.NoError(t, err)
	require.Equal(t, "flag.db", db)
}

func TestCmdBuilder_SetFlags(t *testing.T) {
	builder := NewBuilder("test", nil).(*Builder)

	cmd := builder.SetCommand("execute")
	cmd.SetDescription("run a command")
	cmd.SetFlags(cli.StringFlag{Name: "sender"})
	cmd.SetFlags(cli.StringFlag{Name: "msg", Required: true})

	require.Len(t, builder.commands, 1)
	require.Len(t, builder.commands[0].flags, 2)
	require.Empty(t, builder.flags)

	app := builder.Build().(*urfave.App)
	require.Equal(t, "run a command", app.Commands[0].Usage)
	require.Len(t, app.Commands[0].Flags, 2)
}

func TestConvertFlags(t *testing.T) {
	out := convertFlags([]cli.Flag{
		cli.StringFlag{Name: "name1", Usage: "usage1", Env: "ENV1", Required: true, Value: "value1"},
		cli.BoolFlag{Name: "name2", Usage: "usage2"},
	})
	require.Len(t, out, 2)

	str := out[0].(*urfave.StringFlag)
	require.Equal(t, "name1", str.Name)
	require.Equal(t, []string{"ENV1"}, str.EnvVars)
	require.True(t, str.Required)
	require.Equal(t, "value1", str.Value)

	boolean := out[1].(*urfave.BoolFlag)
	require.Equal(t, "name2", boolean.Name)
	require.Nil(t, boolean.EnvVars)
}

func TestConvertFlags_Panic(t *testing.T) {
	defer func() {
		r := recover()
		require.Equal(t, "flag type '<nil>' not supported", r)
	}()

	convertFlags([]cli.Flag{nil})
}

func TestMakeAction(t *testing.T) {
	require.Nil(t, makeAction(nil))

	called := false
	action := makeAction(func(flags cli.Flags) error {
		require.Nil(t, flags)
		called = true
		return nil
	})

	require.NoError(t, action(nil))
	require.True(t, called)
}

// -----------------------------------------------------------------------------
// Utility functions

// flagNames returns the names of the flags without the help and the version
// flags that urfave adds to every application.
func flagNames(flags []urfave.Flag) []string {
	names := []string{}

	for _, flag := range flags {
		name := flag.Names()[0]
		if name != "help" && name != "version" {
			names = append(names, name)
		}
	}

	return names
}
