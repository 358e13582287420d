package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/config.toml")
		t.Setenv(EnvHome, "/custom/ft")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if d.ConfigPath != "/custom/config.toml" {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, "/custom/config.toml")
		}
		if d.BaseDir != "/custom/ft" {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, "/custom/ft")
		}
		if d.LogDir != "/custom/ft/log" {
			t.Errorf("LogDir = %q, want %q", d.LogDir, "/custom/ft/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()
		if want := filepath.Join(homeDir, ".config", "ft.toml"); d.ConfigPath != want {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, want)
		}
		wantBase := filepath.Join(homeDir, ".local", "share", "ft")
		if d.BaseDir != wantBase {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, wantBase)
		}
		if want := filepath.Join(wantBase, "log"); d.LogDir != want {
			t.Errorf("LogDir = %q, want %q", d.LogDir, want)
		}
	})
}
