package controller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/tally/cli/node"
	"go.dedis.ch/tally/internal/config"
)

func TestMinimal_SetCommands(t *testing.T) {
	builder := node.NewBuilder("test")

	NewController().SetCommands(builder)
}

func TestMinimal_OnStart(t *testing.T) {
	ctrl := NewController()

	inj := node.NewInjector()

	err := ctrl.OnStart(node.FlagSet{}, inj)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, inj.Resolve(&cfg))
	require.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "config.yaml")
	err = os.WriteFile(path, []byte("db: file.db\nlisten: 127.0.0.1:9000\nlistMaxLimit: 5\nlistDefaultLimit: 2\n"), 0600)
	require.NoError(t, err)

	inj = node.NewInjector()

	err = ctrl.OnStart(node.FlagSet{ConfigFlag: path, DBFlag: "flag.db"}, inj)
	require.NoError(t, err)
	require.NoError(t, inj.Resolve(&cfg))
	require.Equal(t, "flag.db", cfg.DB)
	require.Equal(t, "127.0.0.1:9000", cfg.Listen)
	require.Equal(t, uint32(5), cfg.ListMaxLimit)

	err = ctrl.OnStart(node.FlagSet{ConfigFlag: path, ListenFlag: ":3000"}, inj)
	require.NoError(t, err)
	require.NoError(t, inj.Resolve(&cfg))
	require.Equal(t, "file.db", cfg.DB)
	require.Equal(t, ":3000", cfg.Listen)
	require.True(t, cfg.RejectDuplicateLabels)

	err = ctrl.OnStart(node.FlagSet{AllowDuplicatesFlag: true}, inj)
	require.NoError(t, err)
	require.NoError(t, inj.Resolve(&cfg))
	require.False(t, cfg.RejectDuplicateLabels)
}

func TestMinimal_OnStart_Failures(t *testing.T) {
	ctrl := NewController()

	missing := filepath.Join(t.TempDir(), "missing.yaml")

	err := ctrl.OnStart(node.FlagSet{ConfigFlag: missing}, node.NewInjector())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load '"+missing+"': ")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listDefaultLimit: 100\n"), 0600))

	err = ctrl.OnStart(node.FlagSet{ConfigFlag: path}, node.NewInjector())
	require.EqualError(t, err, "invalid config: ListDefaultLimit: must be no greater than 30.")
}

func TestMinimal_OnStop(t *testing.T) {
	require.NoError(t, NewController().OnStop(nil))
}
