// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_VERSION": "1.2.3",

		"STORE_API_BASE_URL":    "https://git.example.com/api/v3",
		"STORE_OWNER":           "acme",
		"STORE_REPO":            "books",
		"STORE_BRANCH":          "main",
		"STORE_FILE_PATH":       "data/ledger.json",
		"STORE_TOKEN":           "ghp_secret",
		"STORE_COMMIT_MESSAGE":  "sync",
		"STORE_REQUEST_TIMEOUT": "15s",

		// Storage has a nested prefix: STORAGE_ + DB_
		"STORAGE_DB_DATABASE_URI": "ledger-keeper.db",

		"ENGINE_DEBOUNCE_DELAY":   "3s",
		"ENGINE_NOTIFY_DELAY":     "100ms",
		"ENGINE_CACHE_TTL":        "30s",
		"ENGINE_PROBE_INTERVAL":   "30s",
		"ENGINE_FRESHNESS_WINDOW": "1s",
		"ENGINE_COLLECTIONS":      "products,customers,sales,ledger",

		"BROADCAST_SPOOL_DIR": "/tmp/ledger-spool",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "1.2.3", cfg.App.Version)

	assert.Equal(t, "https://git.example.com/api/v3", cfg.Store.APIBaseURL)
	assert.Equal(t, "acme", cfg.Store.Owner)
	assert.Equal(t, "books", cfg.Store.Repo)
	assert.Equal(t, "main", cfg.Store.Branch)
	assert.Equal(t, "data/ledger.json", cfg.Store.FilePath)
	assert.Equal(t, "ghp_secret", cfg.Store.Token)
	assert.Equal(t, "sync", cfg.Store.CommitMessage)
	assert.Equal(t, 15*time.Second, cfg.Store.RequestTimeout)

	assert.Equal(t, "ledger-keeper.db", cfg.Storage.DB.DSN)

	assert.Equal(t, 3*time.Second, cfg.Engine.DebounceDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.NotifyDelay)
	assert.Equal(t, 30*time.Second, cfg.Engine.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.Engine.ProbeInterval)
	assert.Equal(t, time.Second, cfg.Engine.FreshnessWindow)
	assert.Equal(t, []string{"products", "customers", "sales", "ledger"}, cfg.Engine.Collections)

	assert.Equal(t, "/tmp/ledger-spool", cfg.Broadcast.SpoolDir)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"STORE_OWNER":             "acme",
		"STORAGE_DB_DATABASE_URI": "keeper.db",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// Store partially filled
	assert.Equal(t, "acme", cfg.Store.Owner)
	assert.Empty(t, cfg.Store.Repo)
	assert.Empty(t, cfg.Store.Token)
	assert.Zero(t, cfg.Store.RequestTimeout)

	assert.Equal(t, "keeper.db", cfg.Storage.DB.DSN)

	// Others untouched
	assert.Empty(t, cfg.App.Version)
	assert.Zero(t, cfg.Engine.DebounceDelay)
	assert.Empty(t, cfg.Engine.Collections)
	assert.Empty(t, cfg.Broadcast.SpoolDir)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "", cfg.JSONFilePath)
	assert.Equal(t, App{}, cfg.App)
	assert.Equal(t, Store{}, cfg.Store)
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Broadcast{}, cfg.Broadcast)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"ENGINE_DEBOUNCE_DELAY": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"STORE_REQUEST_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg := &StructuredConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Store.RequestTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_VERSION",

		"STORE_API_BASE_URL",
		"STORE_OWNER",
		"STORE_REPO",
		"STORE_BRANCH",
		"STORE_FILE_PATH",
		"STORE_TOKEN",
		"STORE_COMMIT_MESSAGE",
		"STORE_REQUEST_TIMEOUT",

		"STORAGE_DB_DATABASE_URI",

		"ENGINE_DEBOUNCE_DELAY",
		"ENGINE_NOTIFY_DELAY",
		"ENGINE_CACHE_TTL",
		"ENGINE_PROBE_INTERVAL",
		"ENGINE_FRESHNESS_WINDOW",
		"ENGINE_COLLECTIONS",

		"BROADCAST_SPOOL_DIR",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
