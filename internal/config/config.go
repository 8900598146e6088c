package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vidyasagar/tdoc/internal/lookup"
)

// Presenter names accepted in the presenter key.
const (
	PresenterPopup   = "popup"
	PresenterTooltip = "tooltip"
)

const fileName = "config.yaml"

// Config holds tdoc user configuration.
type Config struct {
	SearchURL      string   `yaml:"search_url"`
	TooltipXPaths  []string `yaml:"tooltip_xpaths"`
	UserAgent      string   `yaml:"user_agent"`
	Presenter      string   `yaml:"presenter"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	Theme          string   `yaml:"theme"`
	path           string
}

// DefaultConfig returns the default configuration: a DuckDuckGo search
// restricted to learn.microsoft.com and the XPaths of its API reference pages.
func DefaultConfig() Config {
	return Config{
		SearchURL: "https://duckduckgo.com/?q=%5csite%3Alearn.microsoft.com+%22" + lookup.Marker + "%22",
		TooltipXPaths: []string{
			"/html/body/div[2]/div/section/div/div[1]/main/div[3]/p[1]",
			"/html/body/div[2]/div/section/div/div[1]/main/div[3]/pre",
		},
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.0.0",
		Presenter:      PresenterPopup,
		TimeoutSeconds: int(lookup.DefaultTimeout / time.Second),
		Theme:          "default",
	}
}

// Load reads the configuration at path, or at the standard location when
// path is empty. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, fileName)
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := cfg.Save(); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the values a lookup depends on. A search URL without the
// marker is allowed; every token then maps to the same page.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SearchURL) == "" {
		errs = append(errs, errors.New("search_url is empty"))
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		errs = append(errs, errors.New("user_agent is empty"))
	}
	switch c.Presenter {
	case PresenterPopup, PresenterTooltip:
	case "":
		c.Presenter = PresenterPopup
	default:
		errs = append(errs, fmt.Errorf("unknown presenter %q (want %s or %s)", c.Presenter, PresenterPopup, PresenterTooltip))
	}
	if c.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds))
	}
	return errors.Join(errs...)
}

// HasMarker reports whether the search URL contains the token placeholder.
func (c *Config) HasMarker() bool {
	return strings.Contains(c.SearchURL, lookup.Marker)
}

// Timeout returns the lookup timeout, defaulting when unset.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return lookup.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Settings returns the values the lookup pipeline reads.
func (c *Config) Settings() lookup.Settings {
	selectors := make([]string, len(c.TooltipXPaths))
	copy(selectors, c.TooltipXPaths)
	return lookup.Settings{Template: c.SearchURL, Selectors: selectors}
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration to its path.
func (c *Config) Save() error {
	if c.path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(dir, fileName)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Dir returns the per-user configuration directory for tdoc.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "tdoc"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "tdoc"), nil
		}
		return filepath.Join(home, ".tdoc"), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tdoc"), nil
		}
		return filepath.Join(home, ".config", "tdoc"), nil
	}
}
