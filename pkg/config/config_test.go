package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEVENV_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pkgx", cfg.Resolver.Command)
	assert.Equal(t, []string{"--quiet", "--json=v1"}, cfg.Resolver.Args)
	assert.Equal(t, 60*time.Second, cfg.Resolver.Timeout)
	assert.False(t, cfg.Activation.Quiet)
	assert.Empty(t, cfg.Store.Dir)
}

func TestLoadUserConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEVENV_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
[resolver]
command = "my-resolver"
timeout = "5s"

[activation]
quiet = true
`), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-resolver", cfg.Resolver.Command)
	assert.Equal(t, 5*time.Second, cfg.Resolver.Timeout)
	assert.True(t, cfg.Activation.Quiet)
	// Untouched sections keep their defaults.
	assert.Equal(t, []string{"--quiet", "--json=v1"}, cfg.Resolver.Args)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DEVENV_CONFIG_DIR", t.TempDir())
	t.Setenv("DEVENV_RESOLVER_COMMAND", "env-resolver")
	t.Setenv("DEVENV_ACTIVATION_QUIET", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-resolver", cfg.Resolver.Command)
	assert.True(t, cfg.Activation.Quiet)
}

func TestLoadRejectsBrokenConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEVENV_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("not = [valid"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBackstopsDegenerateValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEVENV_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
[resolver]
command = ""
timeout = "0s"
`), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pkgx", cfg.Resolver.Command)
	assert.Equal(t, 60*time.Second, cfg.Resolver.Timeout)
}
