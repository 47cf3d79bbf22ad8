package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/wikigen/internal/lookup"
	"github.com/tatianab/wikigen/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wikigen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, lookup.DefaultBaseURL, cfg.Lookup.BaseURL)
	assert.Equal(t, 8, cfg.Lookup.Concurrency)
	assert.Zero(t, cfg.Lookup.Timeout)
	assert.Equal(t, BackendYAML, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(models.DefaultSaveDir, "fields.yaml"), cfg.Store.Path)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
lookup:
  base_url: http://localhost:9000/api
  timeout: 3s
store:
  backend: sqlite
logging:
  level: DEBUG
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.Lookup.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, 8, cfg.Lookup.Concurrency, "unset keys keep their default")
	assert.Equal(t, filepath.Join(models.DefaultSaveDir, "fields.db"), cfg.Store.Path)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Lookup, cfg.Lookup)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "lookup:\n  base_uri: typo\n"))
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "lookup:\n  concurrency: 2\nstore:\n  path: from-file.yaml\n")
	t.Setenv("WIKIGEN_LOOKUP_CONCURRENCY", "16")
	t.Setenv("WIKIGEN_LOOKUP_TIMEOUT", "250ms")
	t.Setenv("WIKIGEN_STORE_PATH", "from-env.yaml")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "custom.log")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Lookup.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.Lookup.Timeout)
	assert.Equal(t, "from-env.yaml", cfg.Store.Path)
	assert.True(t, cfg.Logging.FileEnabled)
	assert.Equal(t, "custom.log", cfg.Logging.FilePath)
}

func TestBadEnvValues(t *testing.T) {
	t.Setenv("WIKIGEN_LOOKUP_CONCURRENCY", "many")
	t.Setenv("LOG_FILE_ENABLED", "perhaps")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WIKIGEN_LOOKUP_CONCURRENCY")
	assert.Contains(t, err.Error(), "LOG_FILE_ENABLED")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Lookup.Concurrency = 0
	cfg.Store.Backend = "postgres"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup.concurrency")
	assert.Contains(t, err.Error(), `store.backend "postgres"`)
}

func TestOpenStore(t *testing.T) {
	for _, backend := range []string{BackendYAML, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := Default()
			cfg.Store.Backend = backend
			cfg.Store.Path = filepath.Join(t.TempDir(), "fields")

			store, err := cfg.OpenStore()
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Write(models.FieldLocationName, "Route 3"))
			got, err := store.Read(models.FieldLocationName)
			require.NoError(t, err)
			assert.Equal(t, "Route 3", got)
		})
	}
}
