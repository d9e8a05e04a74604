// Package config loads skim's TOML settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const fileName = "config.toml"

// Theme holds the two colors the reader draws with. Values are anything
// lipgloss accepts: hex strings or ANSI color numbers.
type Theme struct {
	Accent string `toml:"accent"`
	Muted  string `toml:"muted"`
}

// Config holds application configuration
type Config struct {
	// HeaderOffset is the number of lines at the top of the document pane
	// that count as covered when deciding which sections are visible.
	HeaderOffset int `toml:"header_offset"`
	// SidebarWidth is the width of the table of contents column.
	SidebarWidth int `toml:"sidebar_width"`
	// CompactBelow switches to the compact layout on terminals narrower
	// than this many columns.
	CompactBelow int   `toml:"compact_below"`
	ShowSidebar  bool  `toml:"show_sidebar"`
	Theme        Theme `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HeaderOffset: 0,
		SidebarWidth: 28,
		CompactBelow: 80,
		ShowSidebar:  true,
		Theme: Theme{
			Accent: "#7AA2F7",
			Muted:  "#565F89",
		},
	}
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	return LoadFromFile(Path())
}

// LoadFromFile loads config from a specific file. Keys missing from the
// file keep their defaults; a missing file yields the defaults.
func LoadFromFile(filePath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return cfg, nil
}

// Validate reports settings the reader cannot work with.
func (c *Config) Validate() error {
	if c.HeaderOffset < 0 {
		return fmt.Errorf("header_offset must not be negative, got %d", c.HeaderOffset)
	}
	if c.SidebarWidth < 10 {
		return fmt.Errorf("sidebar_width must be at least 10, got %d", c.SidebarWidth)
	}
	if c.CompactBelow < 0 {
		return fmt.Errorf("compact_below must not be negative, got %d", c.CompactBelow)
	}
	return nil
}

// Path returns XDG_CONFIG_HOME/skim/config.toml or
// ~/.config/skim/config.toml.
func Path() string {
	return filepath.Join(Dir(), fileName)
}

// Dir returns the config directory.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "skim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "skim")
}
