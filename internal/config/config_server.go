package config

import "fmt"

// DefaultServerHTTPAddress is the listen address of the store stub when none
// is configured.
const DefaultServerHTTPAddress = ":8080"

// ServerConfig is the store-stub runtime configuration view assembled from
// [StructuredConfig].
type ServerConfig struct {
	// App contains application-level settings.
	App App
	// Server contains the stub's listen address and accepted token.
	Server Server
}

// GetServerConfig builds the store-stub config view from the merged
// structured configuration, applying the listen-address default.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App:    cfg.App,
		Server: cfg.Server,
	}
	if serverCfg.Server.HTTPAddress == "" {
		serverCfg.Server.HTTPAddress = DefaultServerHTTPAddress
	}

	return serverCfg, nil
}
