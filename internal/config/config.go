// Package config loads ticklist settings from ~/.ticklist/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppDir is the directory under the user's home holding ticklist state.
const AppDir = ".ticklist"

// Config holds ticklist settings.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
	// LogFile receives log output while the TUI owns the terminal.
	LogFile string `yaml:"log_file"`
	// DoubleClickMS is the longest gap between two clicks on a row that
	// still counts as a double click.
	DoubleClickMS int `yaml:"double_click_ms"`
	// Placeholder is shown in the empty add input.
	Placeholder string `yaml:"placeholder"`
	// CharLimit caps the length of task text typed in the TUI.
	CharLimit int `yaml:"char_limit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		DBPath:        filepath.Join(dir, "ticklist.db"),
		LogFile:       filepath.Join(dir, "ticklist.log"),
		DoubleClickMS: 400,
		Placeholder:   "What needs to be done?",
		CharLimit:     256,
	}
}

// DefaultDir returns ~/.ticklist, or .ticklist if the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppDir
	}
	return filepath.Join(home, AppDir)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DoubleClick returns DoubleClickMS as a duration.
func (c *Config) DoubleClick() time.Duration {
	return time.Duration(c.DoubleClickMS) * time.Millisecond
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file, creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must be set")
	}
	if c.DoubleClickMS < 50 || c.DoubleClickMS > 5000 {
		return fmt.Errorf("double_click_ms must be between 50 and 5000, got %d", c.DoubleClickMS)
	}
	if c.CharLimit < 1 {
		return fmt.Errorf("char_limit must be at least 1")
	}
	return nil
}
