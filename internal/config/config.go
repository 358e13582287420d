package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for ft.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // "debug", "info", "warn" or "error"
	API        APIConfig        `toml:"api"`
	Snapshot   SnapshotConfig   `toml:"snapshot"`
	Database   DatabaseConfig   `toml:"database"`
	Encryption EncryptionConfig `toml:"encryption"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// APIConfig describes how to reach the flight backend.
type APIConfig struct {
	BaseURL string      `toml:"base_url"`
	Timeout Duration    `toml:"timeout"`
	Retry   RetryConfig `toml:"retry"`
}

// RetryConfig bounds retries of idempotent requests.
// MaxAttempts counts the first try, so 1 disables retrying.
type RetryConfig struct {
	MaxAttempts int      `toml:"max_attempts"`
	Delay       Duration `toml:"delay"` // first backoff; doubles per attempt
}

// SnapshotConfig represents configuration for the local flight snapshot.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SnapshotConfig struct {
	Type    string `toml:"type"`    // "filesystem", "sqlite", "s3", "redis" or "memory"
	Key     string `toml:"key"`     // storage key, defaults to "flights"
	Encrypt bool   `toml:"encrypt"` // seal the snapshot with the age key pair

	// Filesystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// Redis-specific fields (only used when Type == "redis")
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	RedisPrefix   string `toml:"redis_prefix,omitempty"`
}

// DatabaseConfig represents configuration for the operation history database.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// EncryptionConfig holds paths to the age key pair used for snapshot encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `toml:"textfile,omitempty"` // empty disables the export
}

// Defaults for settings the backend contract fixes.
const (
	DefaultBaseURL     = "http://localhost:3000"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// NewConfig creates a Config with every default filled in relative to baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: Duration{DefaultTimeout},
			Retry: RetryConfig{
				MaxAttempts: DefaultMaxAttempts,
				Delay:       Duration{DefaultRetryDelay},
			},
		},
		Snapshot: SnapshotConfig{
			Type: "filesystem",
			Key:  "flights",
			Dir:  filepath.Join(baseDir, "snapshot"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "ft.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "ft.key"),
		},
	}
}

// Validate checks the settings that would otherwise fail late, mid-request.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout.Duration <= 0 {
		return fmt.Errorf("api.timeout must be > 0, got %v", c.API.Timeout.Duration)
	}
	if c.API.Retry.MaxAttempts < 1 {
		return fmt.Errorf("api.retry.max_attempts must be >= 1, got %d", c.API.Retry.MaxAttempts)
	}
	if c.API.Retry.Delay.Duration < 0 {
		return fmt.Errorf("api.retry.delay must be >= 0, got %v", c.API.Retry.Delay.Duration)
	}
	switch c.Snapshot.Type {
	case "filesystem", "sqlite", "s3", "redis", "memory":
	default:
		return fmt.Errorf("unknown snapshot type: %q", c.Snapshot.Type)
	}
	switch c.Database.Type {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown database type: %q", c.Database.Type)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from r on top of the defaults in base, so a file only
// needs the keys it wants to change.
func (m *Manager) Read(r io.Reader, base *Config) (*Config, error) {
	cfg := *base
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the config file at path over the defaults for baseDir. A missing
// file is not an error: the defaults are returned as-is.
func Load(path, baseDir string) (*Config, error) {
	defaults := NewConfig(baseDir)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. It refuses to overwrite.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
