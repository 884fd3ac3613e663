package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for config loading:
// - Defaults apply when no config file exists
// - Values load from ~/.pyscope/config.yml
// - Environment variables override file values
// - An explicit config file path is honored

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pyscope", "cache"), cfg.Cache.BaseDir)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_FromConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".pyscope")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "cache:\n  base_dir: /tmp/pyscope-cache\n  enabled: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pyscope-cache", cfg.Cache.BaseDir)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PYSCOPE_CACHE_BASE_DIR", "/tmp/env-cache")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env-cache", cfg.Cache.BaseDir)
}

func TestLoadFrom_ExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  enabled: true\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, cfg.Cache.Enabled)
}
