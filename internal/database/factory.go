package database

import (
	"fmt"
	"os"
	"path/filepath"

	"ft-go/internal/config"
	"ft-go/internal/ft"
)

// DatabaseFile is the file name of the SQLite database in the data dir.
const DatabaseFile = "ft.db"

// NewDatabaseFromConfig creates a database based on the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, clock ft.Clock) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, DatabaseFile), clock)
	case "memory":
		return NewSQLiteDatabase(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
