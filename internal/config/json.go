package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Store struct {
		APIBaseURL     string   `json:"api_base_url"`
		Owner          string   `json:"owner"`
		Repo           string   `json:"repo"`
		Branch         string   `json:"branch"`
		FilePath       string   `json:"file_path"`
		Token          string   `json:"token"`
		CommitMessage  string   `json:"commit_message"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"store,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Engine struct {
		DebounceDelay   Duration `json:"debounce_delay"`
		NotifyDelay     Duration `json:"notify_delay"`
		CacheTTL        Duration `json:"cache_ttl"`
		ProbeInterval   Duration `json:"probe_interval"`
		FreshnessWindow Duration `json:"freshness_window"`
		Collections     []string `json:"collections"`
	} `json:"engine,omitempty"`

	Broadcast struct {
		SpoolDir string `json:"spool_dir"`
	} `json:"broadcast,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Store: Store{
			APIBaseURL:     jsonCfg.Store.APIBaseURL,
			Owner:          jsonCfg.Store.Owner,
			Repo:           jsonCfg.Store.Repo,
			Branch:         jsonCfg.Store.Branch,
			FilePath:       jsonCfg.Store.FilePath,
			Token:          jsonCfg.Store.Token,
			CommitMessage:  jsonCfg.Store.CommitMessage,
			RequestTimeout: time.Duration(jsonCfg.Store.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Engine: Engine{
			DebounceDelay:   time.Duration(jsonCfg.Engine.DebounceDelay),
			NotifyDelay:     time.Duration(jsonCfg.Engine.NotifyDelay),
			CacheTTL:        time.Duration(jsonCfg.Engine.CacheTTL),
			ProbeInterval:   time.Duration(jsonCfg.Engine.ProbeInterval),
			FreshnessWindow: time.Duration(jsonCfg.Engine.FreshnessWindow),
			Collections:     jsonCfg.Engine.Collections,
		},
		Broadcast: Broadcast{
			SpoolDir: jsonCfg.Broadcast.SpoolDir,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
