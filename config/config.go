package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pevans/newsharvest"
	"github.com/pevans/newsharvest/fetcher"
)

// Settings is the effective configuration of a crawl.
type Settings struct {
	Crawl             *newsharvest.CrawlConfig
	Client            fetcher.ClientConfig
	Render            bool
	RenderConcurrency int
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Crawl:             newsharvest.DefaultCrawlConfig(),
		Client:            fetcher.DefaultClientConfig(),
		Render:            true,
		RenderConcurrency: 1,
	}
}

// Load resolves settings with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (path, or ~/.newsharvest/config.yaml when empty)
// 3. Default values (lowest priority)
// The result is validated before it is returned.
func Load(path string) (*Settings, error) {
	settings := Defaults()

	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		if err := cfg.Apply(settings); err != nil {
			return nil, err
		}
	}

	ApplyEnv(settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Apply copies every value set in the file onto settings.
func (fc *FileConfig) Apply(settings *Settings) error {
	c := fc.Crawl

	if c.BaseURL != "" {
		settings.Crawl.BaseURL = c.BaseURL
	}
	if c.UserAgent != "" {
		settings.Client.UserAgent = c.UserAgent
	}
	if len(c.Headers) > 0 {
		settings.Client.Headers = c.Headers
	}

	durations := []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{"timeout", c.Timeout, &settings.Client.Timeout},
		{"render_timeout", c.RenderTimeout, &settings.Client.RenderTimeout},
		{"delay", c.Delay, &settings.Crawl.Delay},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid crawl.%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if c.Concurrency != 0 {
		settings.Crawl.Concurrency = c.Concurrency
	}
	if c.RenderConcurrency != 0 {
		settings.RenderConcurrency = c.RenderConcurrency
	}
	if c.Render != nil {
		settings.Render = *c.Render
	}

	if fc.Listing != nil {
		settings.Crawl.Listing = *fc.Listing
	}
	if fc.Pagination != nil {
		settings.Crawl.Pagination = *fc.Pagination
	}
	if len(fc.Rules) > 0 {
		settings.Crawl.Rules = fc.Rules
	}

	return nil
}

// ApplyEnv overrides settings from NEWSHARVEST_* environment variables.
func ApplyEnv(settings *Settings) {
	if val := os.Getenv("NEWSHARVEST_BASE_URL"); val != "" {
		settings.Crawl.BaseURL = val
	}
	if val := os.Getenv("NEWSHARVEST_USER_AGENT"); val != "" {
		settings.Client.UserAgent = val
	}
}

// Validate checks the settings and the markup tables.
func (s *Settings) Validate() error {
	if !strings.HasPrefix(s.Crawl.BaseURL, "http://") && !strings.HasPrefix(s.Crawl.BaseURL, "https://") {
		return fmt.Errorf("base URL must use http or https: %q", s.Crawl.BaseURL)
	}
	if s.Crawl.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", s.Crawl.Concurrency)
	}
	if s.RenderConcurrency < 1 {
		return fmt.Errorf("render concurrency must be at least 1, got %d", s.RenderConcurrency)
	}
	if s.Crawl.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", s.Crawl.Delay)
	}
	if err := s.Crawl.Listing.Validate(); err != nil {
		return err
	}
	if err := s.Crawl.Pagination.Validate(); err != nil {
		return err
	}
	return s.Crawl.Rules.Validate()
}

// ParseDuration extends time.ParseDuration with whole days ("30d") and
// weeks ("2w").
func ParseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	units := map[string]time.Duration{
		"d": 24 * time.Hour,
		"w": 7 * 24 * time.Hour,
	}
	for suffix, unit := range units {
		count, ok := strings.CutSuffix(s, suffix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(count)
		if err != nil || n < 0 {
			break
		}
		return time.Duration(n) * unit, nil
	}

	return 0, fmt.Errorf("invalid duration: %s", s)
}
