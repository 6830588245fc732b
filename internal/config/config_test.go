package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(f)
	require.NoError(t, f.Parse(args))
	return f
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(parseFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8484", cfg.Listen)
	assert.Equal(t, "leitbox.db", cfg.DBPath)
	assert.Equal(t, 20, cfg.QueueLimit)
	assert.Equal(t, "repos", cfg.ReposDir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leitbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: 127.0.0.1:9999\nqueue_limit: 40\n"), 0o644))

	cfg, err := Load(parseFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, 40, cfg.QueueLimit)
	// Keys the file does not set keep their flag defaults.
	assert.Equal(t, "leitbox.db", cfg.DBPath)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leitbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: from-file.db\n"), 0o644))

	cfg, err := Load(parseFlags(t, "--config", path, "--db", "from-flag.db"))
	require.NoError(t, err)

	assert.Equal(t, "from-flag.db", cfg.DBPath)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leitbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue_limit: 40\n"), 0o644))
	t.Setenv("LEITBOX_QUEUE_LIMIT", "60")

	cfg, err := Load(parseFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.QueueLimit)
}

func TestValidation(t *testing.T) {
	_, err := Load(parseFlags(t, "--listen", "not-an-address"))
	assert.Error(t, err)

	_, err = Load(parseFlags(t, "--queue-limit", "0"))
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := Load(parseFlags(t, "--config", "/does/not/exist.yaml"))
	assert.Error(t, err)
}
