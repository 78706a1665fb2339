package node

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/tally/cli"
	"go.dedis.ch/tally/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestCliBuilder_SetGlobalFlags(t *testing.T) {
	builder := NewBuilder("test")

	builder.SetGlobalFlags(cli.StringFlag{Name: "config"}, cli.StringFlag{Name: "db"})

	app := builder.Build().(*urfave.App)

	names := []string{}
	for _, flag := range app.Flags {
		names = append(names, flag.Names()[0])
	}

	require.Contains(t, names, "config")
	require.Contains(t, names, "db")
	require.NotContains(t, names, "msg")
}

func TestCliBuilder_MakeAction(t *testing.T) {
	calls := &[]string{}

	out := new(bytes.Buffer)
	builder := NewBuilderWithCfg("test", nil, out,
		fakeInitializer{name: "a", calls: calls}, fakeInitializer{name: "b", calls: calls})

	err := builder.MakeAction(fakeAction{calls: calls})(FlagSet{"name": "Alice"})
	require.NoError(t, err)
	require.Equal(t, []string{"start a", "start b", "execute Alice", "stop b", "stop a"}, *calls)
	require.Equal(t, "hello", out.String())

	*calls = nil

	err = builder.MakeAction(fakeAction{calls: calls, err: fake.GetError()})(FlagSet{})
	require.EqualError(t, err, fake.GetError().Error())
	require.Equal(t, []string{"start a", "start b", "execute ", "stop b", "stop a"}, *calls)
}

func TestCliBuilder_MakeAction_StartFailure(t *testing.T) {
	calls := &[]string{}

	builder := NewBuilderWithCfg("test", nil, nil,
		fakeInitializer{name: "a", calls: calls},
		fakeInitializer{name: "b", calls: calls, err: fake.GetError()})

	err := builder.MakeAction(fakeAction{calls: calls})(FlagSet{})
	require.EqualError(t, err, fake.Err("couldn't run the controller"))
	require.Equal(t, []string{"start a", "start b", "stop a"}, *calls)
}

func TestCliBuilder_MakeAction_StopFailure(t *testing.T) {
	calls := &[]string{}

	builder := NewBuilderWithCfg("test", nil, new(bytes.Buffer),
		fakeInitializer{name: "a", calls: calls, errStop: xerrors.New("oops")},
		fakeInitializer{name: "b", calls: calls})

	err := builder.MakeAction(fakeAction{calls: calls})(FlagSet{})
	require.EqualError(t, err, "couldn't stop controller: oops")
	require.Equal(t, []string{"start a", "start b", "execute ", "stop b", "stop a"}, *calls)
}

func TestCliBuilder_Build(t *testing.T) {
	calls := &[]string{}

	builder := NewBuilderWithCfg("test", nil, new(bytes.Buffer),
		fakeInitializer{name: "a", calls: calls})

	app := builder.Build().(*urfave.App)
	require.Len(t, app.Commands, 2)
	require.Equal(t, "greet", app.Commands[0].Name)

	err := app.Run([]string{"test", "greet", "--name", "Bob"})
	require.NoError(t, err)
	require.Equal(t, []string{"start a", "execute Bob", "stop a"}, *calls)
}

func TestContext_WaitInterrupt(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	close(sigs)

	ctx := Context{sigs: sigs}
	ctx.WaitInterrupt()

	// Without channel the call returns immediately.
	Context{}.WaitInterrupt()
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeInitializer struct {
	name    string
	calls   *[]string
	err     error
	errStop error
}

func (i fakeInitializer) SetCommands(builder Builder) {
	cmd := builder.SetCommand("greet")
	cmd.SetFlags(cli.StringFlag{Name: "name"})
	cmd.SetAction(builder.MakeAction(fakeAction{calls: i.calls}))
}

func (i fakeInitializer) OnStart(flags cli.Flags, inj Injector) error {
	*i.calls = append(*i.calls, "start "+i.name)

	return i.err
}

func (i fakeInitializer) OnStop(Injector) error {
	*i.calls = append(*i.calls, "stop "+i.name)

	return i.errStop
}

type fakeAction struct {
	calls *[]string
	err   error
}

func (a fakeAction) Execute(ctx Context) error {
	*a.calls = append(*a.calls, "execute "+ctx.Flags.String("name"))

	ctx.Out.Write([]byte("hello"))

	return a.err
}
