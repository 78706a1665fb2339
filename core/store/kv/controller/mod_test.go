package controller

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/tally/cli/node"
	"go.dedis.ch/tally/core/store/kv"
	"go.dedis.ch/tally/internal/config"
)

func TestMinimal_SetCommands(t *testing.T) {
	NewController().SetCommands(nil)
}

func TestMinimal_OnStart_OnStop(t *testing.T) {
	ctrl := NewController()
	inj := node.NewInjector()

	err := ctrl.OnStart(node.FlagSet{}, inj)
	require.EqualError(t, err, "injector: couldn't find dependency for 'config.Config'")

	cfg := config.Default()
	cfg.DB = filepath.Join(t.TempDir(), "nested", "polls.db")
	inj.Inject(cfg)

	err = ctrl.OnStart(node.FlagSet{}, inj)
	require.NoError(t, err)

	var db kv.DB
	require.NoError(t, inj.Resolve(&db))
	require.FileExists(t, cfg.DB)

	err = ctrl.OnStop(inj)
	require.NoError(t, err)

	err = ctrl.OnStop(node.NewInjector())
	require.EqualError(t, err, "injector: couldn't find dependency for 'kv.DB'")
}
