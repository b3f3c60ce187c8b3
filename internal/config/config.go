// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-ledger-keeper application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Store holds the remote document store connection settings (endpoint,
	// repository coordinates, credential).
	Store Store `envPrefix:"STORE_"`

	// Storage holds configuration for the local persistence backends,
	// currently the sqlite database backing the offline queue.
	Storage Storage `envPrefix:"STORAGE_"`

	// Engine holds timing knobs of the sync engine (debounce, probe,
	// freshness window) and the set of collection names it manages.
	Engine Engine `envPrefix:"ENGINE_"`

	// Broadcast holds cross-instance broadcasting settings.
	Broadcast Broadcast `envPrefix:"BROADCAST_"`

	// Server holds settings of the local store stub server.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Reported in the startup log; the document metadata
	// carries the schema version, not this value. Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Store holds connection settings for the remote version-controlled document
// store (a GitHub-style contents API).
type Store struct {
	// APIBaseURL is the root of the contents API
	// (e.g. "https://api.github.com"). Env: STORE_API_BASE_URL
	APIBaseURL string `env:"API_BASE_URL"`

	// Owner is the repository owner. Env: STORE_OWNER
	Owner string `env:"OWNER"`

	// Repo is the repository name. Env: STORE_REPO
	Repo string `env:"REPO"`

	// Branch is the branch holding the document. Env: STORE_BRANCH
	Branch string `env:"BRANCH"`

	// FilePath is the in-repository path of the JSON document.
	// Env: STORE_FILE_PATH
	FilePath string `env:"FILE_PATH"`

	// Token is the personal access token used for all authenticated calls.
	// Must be kept confidential. Env: STORE_TOKEN
	Token string `env:"TOKEN"`

	// CommitMessage is the message attached to every document save.
	// Env: STORE_COMMIT_MESSAGE
	CommitMessage string `env:"COMMIT_MESSAGE"`

	// RequestTimeout is the maximum duration of a single outbound request
	// (e.g. "15s"). Env: STORE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for local persistence backends.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local sqlite database backing the
// offline queue.
type DB struct {
	// DSN is the sqlite file path (e.g. "ledger-keeper.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Engine holds the timing knobs of the sync engine.
type Engine struct {
	// DebounceDelay is the quiet period after the last non-immediate update
	// before a write fires (e.g. "3s"). Env: ENGINE_DEBOUNCE_DELAY
	DebounceDelay time.Duration `env:"DEBOUNCE_DELAY"`

	// NotifyDelay coalesces bursts of data notifications (e.g. "100ms").
	// Env: ENGINE_NOTIFY_DELAY
	NotifyDelay time.Duration `env:"NOTIFY_DELAY"`

	// CacheTTL is the read-cache entry lifetime (e.g. "30s").
	// Env: ENGINE_CACHE_TTL
	CacheTTL time.Duration `env:"CACHE_TTL"`

	// ProbeInterval is the period of the authenticated connectivity probe
	// (e.g. "30s"). Env: ENGINE_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// FreshnessWindow bounds the age of cross-instance broadcasts that may
	// still be applied (e.g. "1s"). Env: ENGINE_FRESHNESS_WINDOW
	FreshnessWindow time.Duration `env:"FRESHNESS_WINDOW"`

	// Collections is the set of collection names the snapshot always carries
	// (comma-separated in the environment). Env: ENGINE_COLLECTIONS
	Collections []string `env:"COLLECTIONS" envSeparator:","`
}

// Server holds settings of the local store stub server, a development
// stand-in for the remote contents API.
type Server struct {
	// HTTPAddress is the listen address of the stub (e.g. ":8080").
	// Env: SERVER_HTTP_ADDRESS
	HTTPAddress string `env:"HTTP_ADDRESS"`

	// Token, when non-empty, is the only access token the stub accepts.
	// Env: SERVER_TOKEN
	Token string `env:"TOKEN"`
}

// Broadcast holds cross-instance broadcasting settings.
type Broadcast struct {
	// SpoolDir is the shared directory where broadcast envelopes are spooled
	// for sibling processes. Env: BROADCAST_SPOOL_DIR
	SpoolDir string `env:"SPOOL_DIR"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
