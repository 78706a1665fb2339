// Package controller implements a controller that opens the database of the
// node.
package controller

import (
	"os"
	"path/filepath"

	"go.dedis.ch/tally/cli"
	"go.dedis.ch/tally/cli/node"
	"go.dedis.ch/tally/core/store/kv"
	"go.dedis.ch/tally/internal/config"
	"golang.org/x/xerrors"
)

// minimal is an initializer that opens the database.
//
// - implements node.Initializer
type minimal struct{}

// NewController returns a new initializer of the database. It must run after
// the configuration is injected.
func NewController() node.Initializer {
	return minimal{}
}

// SetCommands implements node.Initializer.
func (minimal) SetCommands(node.Builder) {}

// OnStart implements node.Initializer. It opens the database file of the
// configuration and injects it.
func (minimal) OnStart(flags cli.Flags, inj node.Injector) error {
	var cfg config.Config
	err := inj.Resolve(&cfg)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	err = os.MkdirAll(filepath.Dir(cfg.DB), 0700)
	if err != nil {
		return xerrors.Errorf("couldn't make path: %v", err)
	}

	db, err := kv.New(cfg.DB)
	if err != nil {
		return xerrors.Errorf("db: %v", err)
	}

	inj.Inject(db)

	return nil
}

// OnStop implements node.Initializer. It closes the database.
func (minimal) OnStop(inj node.Injector) error {
	var db kv.DB
	err := inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	err = db.Close()
	if err != nil {
		return xerrors.Errorf("while closing db: %v", err)
	}

	return nil
}
