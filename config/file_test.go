package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pevans/newsharvest"
	"github.com/pevans/newsharvest/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHome points HOME at a fresh directory and clears the override
// variables for the duration of the test.
func withHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("NEWSHARVEST_BASE_URL", "")
	t.Setenv("NEWSHARVEST_USER_AGENT", "")
	return tmpDir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	withHome(t)

	cfg, err := LoadConfigFile("")
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

// TestLoadConfigFile_ExplicitMissing verifies an explicit path must exist
func TestLoadConfigFile_ExplicitMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	tmpDir := withHome(t)

	configContent := `crawl:
  base_url: "https://example.com/news"
  user_agent: "harvester/1.0"
  delay: "250ms"
  concurrency: 4
  render: false
rules:
  - name: body
    selector: "div.body p"
  - name: fallback
    selector: "article"
    kind: readability
`
	writeConfig(t, filepath.Join(tmpDir, ".newsharvest", "config.yaml"), configContent)

	cfg, err := LoadConfigFile("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/news", cfg.Crawl.BaseURL)
	assert.Equal(t, "harvester/1.0", cfg.Crawl.UserAgent)
	assert.Equal(t, "250ms", cfg.Crawl.Delay)
	assert.Equal(t, 4, cfg.Crawl.Concurrency)
	require.NotNil(t, cfg.Crawl.Render)
	assert.False(t, *cfg.Crawl.Render)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, scraper.RuleKindReadability, cfg.Rules[1].Kind)
	assert.Nil(t, cfg.Listing)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "crawl: [not: valid")

	_, err := LoadConfigFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

// TestLoad_Defaults verifies built-in settings when no file exists
func TestLoad_Defaults(t *testing.T) {
	withHome(t)

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, newsharvest.DefaultBaseURL, settings.Crawl.BaseURL)
	assert.Equal(t, time.Second, settings.Crawl.Delay)
	assert.Equal(t, 1, settings.Crawl.Concurrency)
	assert.True(t, settings.Render)
	assert.Equal(t, 1, settings.RenderConcurrency)
	assert.Equal(t, scraper.DefaultRules(), settings.Crawl.Rules)
}

// TestLoad_Precedence verifies environment beats file beats default
func TestLoad_Precedence(t *testing.T) {
	withHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, `crawl:
  base_url: "https://file.example.com/news"
  user_agent: "from-file"
  timeout: "5s"
  render_timeout: "1m"
`)
	t.Setenv("NEWSHARVEST_USER_AGENT", "from-env")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com/news", settings.Crawl.BaseURL)
	assert.Equal(t, "from-env", settings.Client.UserAgent)
	assert.Equal(t, 5*time.Second, settings.Client.Timeout)
	assert.Equal(t, time.Minute, settings.Client.RenderTimeout)
}

// TestLoad_ReplacesMarkupTables verifies listing and pagination sections
// replace the defaults
func TestLoad_ReplacesMarkupTables(t *testing.T) {
	withHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, `listing:
  container_selector: "li.item"
  article_selector: "article"
  title_link_selector: "h3 a"
  date_selector: "time"
  description_selector: "p"
pagination:
  wrapper_selector: "div.results"
  heading_selector: "h4"
  count_selector: "span"
  page_size: 20
`)

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "li.item", settings.Crawl.Listing.ContainerSelector)
	assert.Empty(t, settings.Crawl.Listing.DecoyClass)
	assert.Equal(t, 20, settings.Crawl.Pagination.EffectivePageSize())
}

// TestLoad_InvalidSettings verifies validation failures surface from Load
func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad duration", "crawl:\n  delay: \"soon\"\n", "invalid crawl.delay"},
		{"bad scheme", "crawl:\n  base_url: \"ftp://example.com\"\n", "http or https"},
		{"negative concurrency", "crawl:\n  concurrency: -2\n", "concurrency must be at least 1"},
		{"bad selector", "rules:\n  - name: broken\n    selector: \"div[\"\n", "broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHome(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeConfig(t, path, tt.content)

			_, err := Load(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"90s", 90 * time.Second, false},
		{"30d", 30 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"xd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
