package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"ft-go/internal/database/migrations"
	"ft-go/internal/ft"
	"ft-go/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase keeps the operation history and, when the snapshot type is
// "sqlite", the flight snapshot as well.
type SQLiteDatabase struct {
	db    *sql.DB
	path  string
	clock ft.Clock

	closeOnce sync.Once
	closeErr  error
}

// Compile-time checks for both roles the database can serve.
var (
	_ ft.OperationLog  = (*SQLiteDatabase)(nil)
	_ ft.SnapshotStore = (*SQLiteDatabase)(nil)
)

// NewSQLiteDatabase opens the database at path and migrates it to the latest
// schema. path can be a file path or ":memory:". A nil clock uses ft.RealClock.
func NewSQLiteDatabase(path string, clock ft.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if clock == nil {
		clock = ft.RealClock{}
	}
	return &SQLiteDatabase{db: db, path: path, clock: clock}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database, and a single CLI
	// process never needs more than one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}

// Snapshot operations

func (s *SQLiteDatabase) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Put replaces the snapshot in a single statement.
func (s *SQLiteDatabase) Put(ctx context.Context, key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, s.clock.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, name, parameters string) (*model.Operation, error) {
	startedAt := s.clock.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO operations (name, parameters, status, started_at) VALUES (?, ?, ?, ?)",
		name, parameters, ft.OperationRunning, startedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return &model.Operation{
		ID:         id,
		Name:       name,
		Parameters: parameters,
		Status:     ft.OperationRunning,
		StartedAt:  startedAt,
	}, nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE operations SET status = ?, finished_at = ? WHERE id = ?",
		status, s.clock.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing operation: no operation with id %d", id)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*model.Operation, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, parameters, status, started_at, finished_at
		FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		var (
			op       model.Operation
			finished sql.NullTime
		)
		if err := rows.Scan(&op.ID, &op.Name, &op.Parameters, &op.Status, &op.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the connection. It is safe to call more than once, since the
// database may be registered both as the snapshot store and the history.
func (s *SQLiteDatabase) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
