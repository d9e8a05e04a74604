package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadFromFileOverridesSomeKeys(t *testing.T) {
	path := writeConfig(t, `
header_offset = 1
show_sidebar = false

[theme]
accent = "212"
`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.HeaderOffset != 1 {
		t.Errorf("HeaderOffset = %d, want 1", cfg.HeaderOffset)
	}
	if cfg.ShowSidebar {
		t.Error("ShowSidebar should be false")
	}
	if cfg.Theme.Accent != "212" {
		t.Errorf("Accent = %q, want 212", cfg.Theme.Accent)
	}

	def := Default()
	if cfg.SidebarWidth != def.SidebarWidth || cfg.CompactBelow != def.CompactBelow {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}
	if cfg.Theme.Muted != def.Theme.Muted {
		t.Errorf("Muted = %q, want default %q", cfg.Theme.Muted, def.Theme.Muted)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "header_offset = = 3", "failed to parse"},
		{"wrong type", `header_offset = "three"`, "failed to parse"},
		{"negative offset", "header_offset = -1", "header_offset"},
		{"narrow sidebar", "sidebar_width = 4", "sidebar_width"},
		{"negative compact", "compact_below = -10", "compact_below"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := Path(), filepath.Join("/tmp/xdg", "skim", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if got, want := Dir(), filepath.Join(home, ".config", "skim"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestLoadUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	os.MkdirAll(filepath.Join(dir, "skim"), 0755)
	os.WriteFile(filepath.Join(dir, "skim", "config.toml"), []byte("sidebar_width = 40\n"), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SidebarWidth != 40 {
		t.Errorf("SidebarWidth = %d, want 40", cfg.SidebarWidth)
	}
}
