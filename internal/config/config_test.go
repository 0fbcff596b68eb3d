package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "skillshock.db", cfg.Store.Path)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "live_data_persons_history_*.jsonl.gz", cfg.Data.Pattern)
	assert.Equal(t, 16*1024*1024, cfg.Ingest.MaxLineBytes)
	assert.Equal(t, 10, cfg.Analytics.MinSampleSize)
	assert.Equal(t, 10, cfg.Analytics.TopFirstRoles)
	assert.Equal(t, 5, cfg.Analytics.TopPaths)
	assert.Equal(t, "output.json", cfg.Export.OutputPath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/skillshock
analytics:
  min_sample_size: 25
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/skillshock", cfg.Store.DatabaseURL)
	assert.Equal(t, 25, cfg.Analytics.MinSampleSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Analytics.TopPaths)
	assert.Equal(t, "output.json", cfg.Export.OutputPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
export:
  output_path: from-file.json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("SKILLSHOCK_EXPORT_OUTPUT_PATH", "from-env.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env.json", cfg.Export.OutputPath)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "shouting", Format: "json"}))
}
