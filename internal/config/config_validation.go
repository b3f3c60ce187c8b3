// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The structured view is permissive: missing values are either defaulted or
// rejected later by the runtime view that needs them.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Store.Owner == "" || cfg.Store.Repo == "" || cfg.Store.FilePath == "" {
		return ErrInvalidStoreConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	for _, name := range cfg.Engine.Collections {
		if name == "" || name == "metadata" {
			return ErrInvalidEngineConfigs
		}
	}

	return nil
}
