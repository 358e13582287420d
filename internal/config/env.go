package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file.
const (
	EnvBaseURL  = "FT_API_BASE_URL"
	EnvTimeout  = "FT_API_TIMEOUT"
	EnvLogLevel = "FT_LOG_LEVEL"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win over the file. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any FT_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.API.Timeout = Duration{d}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}

// parseTimeout accepts a Go duration, or a bare integer in milliseconds.
func parseTimeout(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	var ms int64
	if _, err := fmt.Sscanf(v, "%d", &ms); err != nil || fmt.Sprint(ms) != v {
		return 0, fmt.Errorf("invalid timeout %q", v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ParseLevel maps a log_level setting to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", level)
	}
}
