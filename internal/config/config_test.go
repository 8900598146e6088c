package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().SearchURL, cfg.SearchURL)
	assert.Equal(t, path, cfg.Path())
	assert.FileExists(t, path)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.TooltipXPaths, again.TooltipXPaths)
	assert.Equal(t, cfg.UserAgent, again.UserAgent)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `search_url: "https://search.example/?q={search_term}"
tooltip_xpaths:
  - "//p[1]"
  - "//pre"
presenter: tooltip
timeout_seconds: 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://search.example/?q={search_term}", cfg.SearchURL)
	assert.Equal(t, []string{"//p[1]", "//pre"}, cfg.TooltipXPaths)
	assert.Equal(t, PresenterTooltip, cfg.Presenter)
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultConfig().UserAgent, cfg.UserAgent)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presenter: balloon\nuser_agent: \"\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown presenter")
	assert.Contains(t, err.Error(), "user_agent is empty")
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tooltip_xpaths: [unterminated"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestSettingsCopiesSelectors(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.Settings()
	s.Selectors[0] = "changed"
	assert.NotEqual(t, "changed", cfg.TooltipXPaths[0])
	assert.Equal(t, cfg.SearchURL, s.Template)
}

func TestHasMarker(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.HasMarker())
	cfg.SearchURL = "https://static.example/"
	assert.False(t, cfg.HasMarker())
	assert.NoError(t, cfg.Validate())
}

func TestTimeoutDefault(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, 15*time.Second, cfg.Timeout())
}
