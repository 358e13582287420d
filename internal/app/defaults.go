package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that relocate ft's files.
const (
	EnvConfigPath = "FT_CONFIG_PATH"
	EnvHome       = "FT_HOME"
)

// Defaults holds the locations ft uses when nothing is configured.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FT_CONFIG_PATH: config file location (default: ~/.config/ft.toml)
//   - FT_HOME: base directory for ft data (default: ~/.local/share/ft)
func GetDefaults() (*Defaults, error) {
	configPath, err := fromEnvOrHome(EnvConfigPath, ".config", "ft.toml")
	if err != nil {
		return nil, err
	}
	baseDir, err := fromEnvOrHome(EnvHome, ".local", "share", "ft")
	if err != nil {
		return nil, err
	}
	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

// fromEnvOrHome returns $env if set, otherwise the home directory joined with elem.
func fromEnvOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
