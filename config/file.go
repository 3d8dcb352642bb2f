package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/newsharvest/scraper"
	"gopkg.in/yaml.v3"
)

// CrawlFileConfig holds crawl settings from the config file. Durations are
// strings accepted by ParseDuration.
type CrawlFileConfig struct {
	BaseURL           string            `yaml:"base_url"`
	UserAgent         string            `yaml:"user_agent"`
	Headers           map[string]string `yaml:"headers"`
	Timeout           string            `yaml:"timeout"`
	RenderTimeout     string            `yaml:"render_timeout"`
	Delay             string            `yaml:"delay"`
	Concurrency       int               `yaml:"concurrency"`
	RenderConcurrency int               `yaml:"render_concurrency"`
	Render            *bool             `yaml:"render"`
}

// FileConfig represents the structure of ~/.newsharvest/config.yaml. Listing,
// pagination and rules replace the built-in markup tables as a whole when
// present.
type FileConfig struct {
	Crawl      CrawlFileConfig           `yaml:"crawl"`
	Listing    *scraper.ListingConfig    `yaml:"listing"`
	Pagination *scraper.PaginationConfig `yaml:"pagination"`
	Rules      scraper.Rules             `yaml:"rules"`
}

// ConfigFilePath returns the default config file location.
func ConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".newsharvest", "config.yaml"), nil
}

// LoadConfigFile loads configuration from path. An empty path means the
// default location, where a missing file is not an error and nil is
// returned. An explicit path must exist. A file that exists but cannot be
// parsed is an error either way.
func LoadConfigFile(path string) (*FileConfig, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := ConfigFilePath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil, nil // File doesn't exist -- not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
