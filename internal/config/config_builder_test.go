package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBuilder_EnvOnly(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"STORE_OWNER":             "acme",
		"STORE_REPO":              "books",
		"STORE_FILE_PATH":         "data/ledger.json",
		"STORAGE_DB_DATABASE_URI": "keeper.db",
	})

	// Act
	cfg, err := newConfigBuilder().withEnv().build()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Store.Owner)
	assert.Equal(t, "books", cfg.Store.Repo)
	assert.Equal(t, "data/ledger.json", cfg.Store.FilePath)
	assert.Equal(t, "keeper.db", cfg.Storage.DB.DSN)
}

func TestConfigBuilder_EnvBeatsJSON(t *testing.T) {
	// Arrange: env выигрывает у JSON, так как мержится первым
	jsonPath := writeJSONConfig(t, `{
		"store": {
			"owner": "json-owner",
			"repo":  "json-repo",
			"request_timeout": "5s"
		},
		"engine": {
			"debounce_delay": "10s"
		}
	}`)
	setEnvVars(t, map[string]string{
		"CONFIG":      jsonPath,
		"STORE_OWNER": "env-owner",
	})

	// Act
	cfg, err := newConfigBuilder().withEnv().withJSON().build()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "env-owner", cfg.Store.Owner)
	// Fields unset in the environment fall through to JSON.
	assert.Equal(t, "json-repo", cfg.Store.Repo)
	assert.Equal(t, 5*time.Second, cfg.Store.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Engine.DebounceDelay)
}

func TestConfigBuilder_JSONSkippedWhenNoPath(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg, err := newConfigBuilder().withEnv().withJSON().build()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Store{}, cfg.Store)
}

func TestConfigBuilder_JSONFileMissing(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG": "/definitely/not/there.json",
	})

	// Act
	_, err := newConfigBuilder().withEnv().withJSON().build()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error occured during building config")
}

func TestConfigBuilder_JSONMalformed(t *testing.T) {
	// Arrange
	jsonPath := writeJSONConfig(t, `{"store": {`)
	setEnvVars(t, map[string]string{
		"CONFIG": jsonPath,
	})

	// Act
	_, err := newConfigBuilder().withEnv().withJSON().build()

	// Assert
	require.Error(t, err)
}

func writeJSONConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
