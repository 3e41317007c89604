package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "console", cfg.Output)
	assert.Equal(t, "CHECKERS_VAR_", cfg.EnvPrefix)
	assert.False(t, cfg.GetBail())
	assert.True(t, cfg.IsDefault())

	cfg.Bail = BoolPtr(true)
	assert.False(t, cfg.IsDefault())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("yaml file", func(t *testing.T) {
		dir := t.TempDir()
		content := `
output: junit
bail: true
suites: [smoke]
data:
  - testdata/math.yaml
variables:
  host: localhost
  port: 8080
beforeRun:
  - ./scripts/start.sh
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".checkers.yaml"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "junit", cfg.Output)
		assert.True(t, cfg.GetBail())
		assert.False(t, cfg.GetVerbose())
		assert.Equal(t, []string{"smoke"}, cfg.Suites)
		assert.Equal(t, []string{"testdata/math.yaml"}, cfg.Data)
		assert.Equal(t, map[string]any{"host": "localhost", "port": 8080}, cfg.Variables)
		assert.Equal(t, []string{"./scripts/start.sh"}, cfg.BeforeRun)
		assert.Equal(t, DefaultEnvPrefix, cfg.EnvPrefix, "unset fields keep defaults")
	})

	t.Run("json file", func(t *testing.T) {
		dir := t.TempDir()
		content := `{"output": "tap", "verbose": true, "historyDB": "history.db"}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".checkers.json"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "tap", cfg.Output)
		assert.True(t, cfg.GetVerbose())
		assert.Equal(t, "history.db", cfg.HistoryDB)
	})

	t.Run("no file", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.IsDefault())
	})

	t.Run("invalid file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".checkers.yml"), []byte("output: [unclosed"), 0644))

		_, err := FindAndLoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config")
	})
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfig_Merge(t *testing.T) {
	base := &Config{
		Output:    "console",
		Bail:      BoolPtr(true),
		Data:      []string{"a.yaml"},
		Variables: map[string]any{"host": "localhost", "port": 80},
	}
	override := &Config{
		Output:    "json",
		Verbose:   BoolPtr(true),
		Data:      []string{"b.yaml"},
		Variables: map[string]any{"port": 8080},
	}

	merged := base.Merge(override)
	assert.Equal(t, "json", merged.Output)
	assert.True(t, merged.GetBail())
	assert.True(t, merged.GetVerbose())
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, merged.Data)
	assert.Equal(t, map[string]any{"host": "localhost", "port": 8080}, merged.Variables)
	assert.Equal(t, map[string]any{"host": "localhost", "port": 80}, base.Variables, "base is not modified")

	assert.Same(t, base, base.Merge(nil))
}

func TestConfig_SaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".checkers.yaml")
	cfg := DefaultConfig()
	cfg.Suites = []string{"smoke"}
	cfg.NoColor = BoolPtr(true)

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"smoke"}, loaded.Suites)
	assert.True(t, loaded.GetNoColor())
}
