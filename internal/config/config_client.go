package config

import (
	"fmt"
	"time"
)

// Engine timing defaults, applied by [GetClientConfig] when the merged config
// leaves a knob at zero.
const (
	DefaultDebounceDelay   = 3 * time.Second
	DefaultNotifyDelay     = 100 * time.Millisecond
	DefaultCacheTTL        = 30 * time.Second
	DefaultProbeInterval   = 30 * time.Second
	DefaultFreshnessWindow = time.Second
	DefaultRequestTimeout  = 15 * time.Second
)

// DefaultCollections is the record-collection set managed by the snapshot
// when none is configured.
var DefaultCollections = []string{"products", "customers", "sales", "ledger"}

// ClientConfig is the client-runtime configuration view assembled from
// [StructuredConfig], with engine defaults applied.
type ClientConfig struct {
	// App contains application-level client settings.
	App App
	// Store contains remote document store settings.
	Store Store
	// Storage contains local persistence settings.
	Storage Storage
	// Engine contains sync engine timing knobs and collection names.
	Engine Engine
	// Broadcast contains cross-instance broadcast settings.
	Broadcast Broadcast
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], fills unset engine
// timings with defaults, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App:       cfg.App,
		Store:     cfg.Store,
		Storage:   cfg.Storage,
		Engine:    cfg.Engine,
		Broadcast: cfg.Broadcast,
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Store.APIBaseURL == "" {
		cfg.Store.APIBaseURL = "https://api.github.com"
	}
	if cfg.Store.Branch == "" {
		cfg.Store.Branch = "main"
	}
	if cfg.Store.CommitMessage == "" {
		cfg.Store.CommitMessage = "ledger-keeper: update data"
	}
	if cfg.Store.RequestTimeout == 0 {
		cfg.Store.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Engine.DebounceDelay == 0 {
		cfg.Engine.DebounceDelay = DefaultDebounceDelay
	}
	if cfg.Engine.NotifyDelay == 0 {
		cfg.Engine.NotifyDelay = DefaultNotifyDelay
	}
	if cfg.Engine.CacheTTL == 0 {
		cfg.Engine.CacheTTL = DefaultCacheTTL
	}
	if cfg.Engine.ProbeInterval == 0 {
		cfg.Engine.ProbeInterval = DefaultProbeInterval
	}
	if cfg.Engine.FreshnessWindow == 0 {
		cfg.Engine.FreshnessWindow = DefaultFreshnessWindow
	}
	if len(cfg.Engine.Collections) == 0 {
		cfg.Engine.Collections = DefaultCollections
	}
}
