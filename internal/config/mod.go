// Package config defines the configuration of a tally node. It is read from an
// optional YAML file and the flags of the command line override it.
//
//	db: /var/lib/tally/polls.db
//	listen: 127.0.0.1:8080
//	rejectDuplicateLabels: true
//	listDefaultLimit: 10
//	listMaxLimit: 30
package config

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultDB is the default path of the database.
	DefaultDB = "tally.db"

	// DefaultListen is the default address of the HTTP proxy.
	DefaultListen = "127.0.0.1:8080"
)

// Config is the configuration of a node.
type Config struct {
	// DB is the path of the database file.
	DB string `yaml:"db"`

	// Listen is the address of the HTTP proxy.
	Listen string `yaml:"listen"`

	// RejectDuplicateLabels tells if a poll can use the same label for several
	// options.
	RejectDuplicateLabels bool `yaml:"rejectDuplicateLabels"`

	ListDefaultLimit uint32 `yaml:"listDefaultLimit"`
	ListMaxLimit     uint32 `yaml:"listMaxLimit"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DB:                    DefaultDB,
		Listen:                DefaultListen,
		RejectDuplicateLabels: true,
		ListDefaultLimit:      10,
		ListMaxLimit:          30,
	}
}

// Load reads the file at the given path. The keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, xerrors.Errorf("failed to read config: %v", err)
	}

	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return cfg, xerrors.Errorf("failed to decode config: %v", err)
	}

	return cfg, nil
}

// Validate returns an error if a value of the configuration is out of range.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.DB, validation.Required),
		validation.Field(&c.Listen, validation.Required),
		validation.Field(&c.ListMaxLimit, validation.Required),
		validation.Field(&c.ListDefaultLimit, validation.Max(c.ListMaxLimit)),
	)

	if err != nil {
		return xerrors.Errorf("invalid config: %v", err)
	}

	return nil
}
