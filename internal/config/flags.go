package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-api-base-url remote store API root (e.g. https://api.github.com)
//	-owner repository owner
//	-repo repository name
//	-branch branch holding the document
//	-file in-repository path of the JSON document
//	-token personal access token
//	-commit-message message attached to every save
//	-request-timeout outbound request timeout (e.g., "15s")
//	-d local sqlite DSN for the offline queue
//	-spool-dir broadcast spool directory
//	-debounce engine debounce delay (e.g., "3s")
//	-probe-interval connectivity probe interval (e.g., "30s")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var apiBaseURL string
	var owner string
	var repo string
	var branch string
	var filePath string
	var token string
	var commitMessage string
	var requestTimeout time.Duration
	var databaseDSN string
	var spoolDir string
	var debounceDelay time.Duration
	var probeInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&apiBaseURL, "api-base-url", "", "Remote store API root")
	flag.StringVar(&owner, "owner", "", "Repository owner")
	flag.StringVar(&repo, "repo", "", "Repository name")
	flag.StringVar(&branch, "branch", "", "Branch holding the document")
	flag.StringVar(&filePath, "file", "", "In-repository document path")
	flag.StringVar(&token, "token", "", "Personal access token")
	flag.StringVar(&commitMessage, "commit-message", "", "Commit message for saves")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	flag.StringVar(&databaseDSN, "d", "", "Local sqlite DSN")
	flag.StringVar(&spoolDir, "spool-dir", "", "Broadcast spool directory")
	flag.DurationVar(&debounceDelay, "debounce", 0, "Engine debounce delay (e.g., 3s)")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval (e.g., 30s)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Store: Store{
			APIBaseURL:     apiBaseURL,
			Owner:          owner,
			Repo:           repo,
			Branch:         branch,
			FilePath:       filePath,
			Token:          token,
			CommitMessage:  commitMessage,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Engine: Engine{
			DebounceDelay: debounceDelay,
			ProbeInterval: probeInterval,
		},
		Broadcast: Broadcast{
			SpoolDir: spoolDir,
		},
		JSONFilePath: jsonConfigPath,
	}
}
