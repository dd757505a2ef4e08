package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvServerURL overrides the configured server URL
const EnvServerURL = "MX_SERVER_URL"

type Config struct {
	ServerURL string `yaml:"server_url"`
	PageSize  int    `yaml:"page_size"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
	TableWidth int    `yaml:"table_width"`

	// Diagnostics
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"`

	// Downloads
	DownloadDir string `yaml:"download_dir"`
	OpenViewer  string `yaml:"open_viewer"`

	// Drop folder
	WatchDir        string   `yaml:"watch_dir"`
	WatchDebounceMS int      `yaml:"watch_debounce_ms"`
	WatchTags       []string `yaml:"watch_tags"`

	// Upload
	ConfirmUpload bool `yaml:"confirm_upload"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:       "http://localhost:8080",
		PageSize:        20,
		ColorTheme:      "auto",
		TableWidth:      0,
		LogFile:         "",
		Debug:           false,
		DownloadDir:     ".",
		OpenViewer:      "",
		WatchDir:        "",
		WatchDebounceMS: 500,
		WatchTags:       []string{},
		ConfirmUpload:   false,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8080"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "."
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.WatchTags == nil {
		cfg.WatchTags = []string{}
	}

	if !isValidTheme(cfg.ColorTheme) {
		cfg.ColorTheme = "auto"
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		c.ServerURL = v
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server_url %q: expected scheme://host[:port]", c.ServerURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server_url %q: scheme must be http or https", c.ServerURL)
	}
	return nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// isValidTheme checks if the color theme is valid
func isValidTheme(theme string) bool {
	validThemes := []string{"auto", "dark", "light"}
	for _, valid := range validThemes {
		if theme == valid {
			return true
		}
	}
	return false
}
