package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStoreConfigs indicates incomplete remote store settings
	// (missing owner, repository, or document path).
	ErrInvalidStoreConfigs = errors.New("invalid store configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidEngineConfigs indicates invalid engine settings (for example,
	// an empty or reserved collection name).
	ErrInvalidEngineConfigs = errors.New("invalid engine configuration")
)
