// Package controller implements a controller that resolves the configuration
// of the node and injects it for the other controllers.
package controller

import (
	"go.dedis.ch/tally/cli"
	"go.dedis.ch/tally/cli/node"
	"go.dedis.ch/tally/internal/config"
	"golang.org/x/xerrors"
)

const (
	// ConfigFlag is the global flag of the path to the YAML configuration.
	ConfigFlag = "config"

	// DBFlag is the global flag of the path to the database.
	DBFlag = "db"

	// AllowDuplicatesFlag is the global flag that accepts polls with several
	// options of the same label.
	AllowDuplicatesFlag = "allow-duplicate-labels"

	// ListenFlag is the flag of the commands that start the HTTP proxy.
	ListenFlag = "listen"
)

// minimal is an initializer that loads the configuration.
//
// - implements node.Initializer
type minimal struct{}

// NewController returns a new initializer of the configuration.
func NewController() node.Initializer {
	return minimal{}
}

// SetCommands implements node.Initializer. It registers the global flags.
func (minimal) SetCommands(builder node.Builder) {
	builder.SetGlobalFlags(
		cli.StringFlag{
			Name:  ConfigFlag,
			Usage: "path to the YAML configuration",
			Env:   "TALLY_CONFIG",
		},
		cli.StringFlag{
			Name:  DBFlag,
			Usage: "path to the database, overrides the configuration",
			Env:   "TALLY_DB",
		},
		cli.BoolFlag{
			Name:  AllowDuplicatesFlag,
			Usage: "accept the same label for several options of a poll",
			Env:   "TALLY_ALLOW_DUPLICATE_LABELS",
		},
	)
}

// OnStart implements node.Initializer. It reads the configuration file if any,
// applies the flags and injects the result.
func (minimal) OnStart(flags cli.Flags, inj node.Injector) error {
	cfg := config.Default()

	path := flags.String(ConfigFlag)
	if path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return xerrors.Errorf("failed to load '%s': %v", path, err)
		}
	}

	db := flags.String(DBFlag)
	if db != "" {
		cfg.DB = db
	}

	if flags.Bool(AllowDuplicatesFlag) {
		cfg.RejectDuplicateLabels = false
	}

	listen := flags.String(ListenFlag)
	if listen != "" {
		cfg.Listen = listen
	}

	err := cfg.Validate()
	if err != nil {
		return err
	}

	inj.Inject(cfg)

	return nil
}

// OnStop implements node.Initializer.
func (minimal) OnStop(node.Injector) error {
	return nil
}
