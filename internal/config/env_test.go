package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnv(t *testing.T) {
	t.Run("overrides base url and trims trailing slash", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "https://api.example.com/")
		t.Setenv(EnvTimeout, "")
		t.Setenv(EnvLogLevel, "")

		cfg := NewConfig("/data/ft")
		if err := ApplyEnv(cfg); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if cfg.API.BaseURL != "https://api.example.com" {
			t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://api.example.com")
		}
		if cfg.API.Timeout.Duration != DefaultTimeout {
			t.Errorf("API.Timeout changed without env var: %v", cfg.API.Timeout.Duration)
		}
	})

	t.Run("timeout accepts duration and milliseconds", func(t *testing.T) {
		tests := []struct {
			value string
			want  time.Duration
		}{
			{value: "2s", want: 2 * time.Second},
			{value: "10000", want: 10 * time.Second},
			{value: "750", want: 750 * time.Millisecond},
		}
		for _, tt := range tests {
			t.Setenv(EnvTimeout, tt.value)
			cfg := NewConfig("/data/ft")
			if err := ApplyEnv(cfg); err != nil {
				t.Fatalf("ApplyEnv(%q) error = %v", tt.value, err)
			}
			if cfg.API.Timeout.Duration != tt.want {
				t.Errorf("timeout %q = %v, want %v", tt.value, cfg.API.Timeout.Duration, tt.want)
			}
		}
	})

	t.Run("invalid timeout is an error", func(t *testing.T) {
		t.Setenv(EnvTimeout, "soon")
		if err := ApplyEnv(NewConfig("/data/ft")); err == nil {
			t.Fatal("ApplyEnv() expected error for invalid timeout")
		}
	})

	t.Run("log level is lowercased", func(t *testing.T) {
		t.Setenv(EnvTimeout, "")
		t.Setenv(EnvLogLevel, "DEBUG")
		cfg := NewConfig("/data/ft")
		if err := ApplyEnv(cfg); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}
	})

	t.Run("sets unset variables only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "FT_API_BASE_URL=http://from-dotenv:3000\nFT_LOG_LEVEL=error\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(EnvLogLevel, "warn")
		// Registers cleanup for the variable LoadDotEnv is about to set.
		t.Setenv(EnvBaseURL, "")
		os.Unsetenv(EnvBaseURL)

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}
		if got := os.Getenv(EnvBaseURL); got != "http://from-dotenv:3000" {
			t.Errorf("%s = %q, want value from .env", EnvBaseURL, got)
		}
		if got := os.Getenv(EnvLogLevel); got != "warn" {
			t.Errorf("%s = %q, want pre-set value to win", EnvLogLevel, got)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
