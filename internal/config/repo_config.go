// Package config provides repository configuration management,
// including reading and writing graft configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the config file inside .git
const ConfigFileName = ".graft_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	// LinkPrefixLen is the identifier width used when validating chain
	// parent links. Zero or absent compares full identifiers.
	LinkPrefixLen *int `json:"linkPrefixLen,omitempty"`
	// Journal controls whether port runs are recorded. Defaults to on.
	Journal *bool `json:"journal,omitempty"`
	// AbbrevLen is the identifier width used for display. Defaults to 10.
	AbbrevLen *int `json:"abbrevLen,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", ConfigFileName)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(configPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// writeRepoConfig writes the repository configuration
func writeRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath(repoRoot), configJSON, 0600)
}

// GetLinkPrefixLen returns the configured chain-link comparison width, or 0
// meaning full identifiers
func GetLinkPrefixLen(repoRoot string) (int, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return 0, err
	}

	if config.LinkPrefixLen != nil && *config.LinkPrefixLen > 0 {
		return *config.LinkPrefixLen, nil
	}
	return 0, nil
}

// SetLinkPrefixLen updates the chain-link comparison width in the config
func SetLinkPrefixLen(repoRoot string, width int) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	config.LinkPrefixLen = &width
	return writeRepoConfig(repoRoot, config)
}

// IsJournalEnabled returns whether port runs should be recorded. Defaults
// to true.
func IsJournalEnabled(repoRoot string) (bool, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return false, err
	}

	if config.Journal != nil {
		return *config.Journal, nil
	}
	return true, nil
}

// SetJournalEnabled updates whether port runs are recorded
func SetJournalEnabled(repoRoot string, enabled bool) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	config.Journal = &enabled
	return writeRepoConfig(repoRoot, config)
}

// GetAbbrevLen returns the identifier width used for display, or 10 by
// default
func GetAbbrevLen(repoRoot string) (int, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return 0, err
	}

	if config.AbbrevLen != nil && *config.AbbrevLen > 0 {
		return *config.AbbrevLen, nil
	}
	return 10, nil
}

// SetAbbrevLen updates the identifier width used for display
func SetAbbrevLen(repoRoot string, width int) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	config.AbbrevLen = &width
	return writeRepoConfig(repoRoot, config)
}
