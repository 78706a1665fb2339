package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, DefaultDB, cfg.DB)
	require.Equal(t, DefaultListen, cfg.Listen)
	require.True(t, cfg.RejectDuplicateLabels)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "db: /tmp/polls.db\nrejectDuplicateLabels: false\nlistMaxLimit: 50\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		DB:                    "/tmp/polls.db",
		Listen:                DefaultListen,
		RejectDuplicateLabels: false,
		ListDefaultLimit:      10,
		ListMaxLimit:          50,
	}, cfg)
}

func TestLoad_Failures(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config: ")

	_, err = Load(writeFile(t, "database: x\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode config: ")

	_, err = Load(writeFile(t, "listMaxLimit: many\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode config: ")
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.ListDefaultLimit = 40

	err := cfg.Validate()
	require.EqualError(t, err,
		"invalid config: ListDefaultLimit: must be no greater than 30.")

	cfg = Default()
	cfg.DB = ""
	cfg.ListMaxLimit = 0
	cfg.ListDefaultLimit = 0

	err = cfg.Validate()
	require.EqualError(t, err,
		"invalid config: DB: cannot be blank; ListMaxLimit: cannot be blank.")
}

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)

	return path
}
