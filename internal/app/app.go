package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"ft-go/internal/api"
	"ft-go/internal/config"
	"ft-go/internal/database"
	"ft-go/internal/encryption"
	"ft-go/internal/ft"
	"ft-go/internal/metrics"
	"ft-go/internal/model"
	"ft-go/internal/snapshot"
)

// ErrEncryptionNotConfigured is returned when snapshot.encrypt is set but no
// key pair exists yet.
var ErrEncryptionNotConfigured = errors.New("snapshot encryption is enabled but no keys exist (run `ft config init --encrypt`)")

// Options carries the process-level settings that do not belong in the config file.
type Options struct {
	Verbose    bool
	Stderr     io.Writer               // defaults to os.Stderr
	UserAgent  string                  // defaults to "ft"
	Passphrase snapshot.PassphraseFunc // unlocks an encrypted snapshot
	Clock      ft.Clock                // defaults to ft.RealClock
}

// FTApp is the application layer between the CLI and the Tracker.
// It constructs all dependencies from config, records every backend
// operation in the history, and releases everything on Close.
type FTApp struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	history ft.OperationLog
	store   ft.SnapshotStore
	client  *api.Client
	tracker *ft.Tracker
	metrics *metrics.Metrics
	logger  ft.Logger
	logFile *os.File
}

// NewFTApp creates a fully wired FTApp from the given config.
// The caller must call Close when done.
func NewFTApp(ctx context.Context, cfg *config.Config, opts Options) (*FTApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = ft.RealClock{}
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opID := opts.Clock.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID, level, opts.Verbose, opts.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	db, err := database.NewDatabaseFromConfig(cfg.Database, opts.Clock)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	store, err := newSnapshotStore(ctx, cfg, db, opts.Passphrase)
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, err
	}

	m := metrics.New()
	clientOpts := []api.Option{api.WithObserver(m)}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, api.WithUserAgent(opts.UserAgent))
	}
	client := api.NewClient(cfg.API, logger, clientOpts...)

	tracker := ft.NewTracker(client, store, logger, ft.WithSnapshotKey(cfg.Snapshot.Key))

	logger.Debug("app initialized",
		"base_url", client.BaseURL(),
		"snapshot", cfg.Snapshot.Type,
		"encrypted", cfg.Snapshot.Encrypt,
		"database", db.Path(),
	)

	return &FTApp{
		cfg:     cfg,
		db:      db,
		history: db,
		store:   store,
		client:  client,
		tracker: tracker,
		metrics: m,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// newSnapshotStore opens the configured snapshot store. The "sqlite" type
// reuses the history database.
func newSnapshotStore(ctx context.Context, cfg *config.Config, db *database.SQLiteDatabase, passphrase snapshot.PassphraseFunc) (ft.SnapshotStore, error) {
	var store ft.SnapshotStore
	if cfg.Snapshot.Type == "sqlite" {
		store = db
	} else {
		s, err := snapshot.NewStoreFromConfig(ctx, cfg.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("creating snapshot store: %w", err)
		}
		store = s
	}

	if !cfg.Snapshot.Encrypt {
		return store, nil
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() {
		store.Close()
		return nil, ErrEncryptionNotConfigured
	}
	if passphrase == nil {
		passphrase = func() (string, error) {
			return "", errors.New("no passphrase source available")
		}
	}
	return snapshot.NewEncryptedStore(store, enc, passphrase), nil
}

// record persists op, runs fn, and stores the outcome in the history and metrics.
func (a *FTApp) record(ctx context.Context, op *Operation, fn func() error) error {
	dbOp, err := a.history.CreateOperation(ctx, op.Name, op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	op.ID = dbOp.ID

	runErr := fn()
	op.Finish(runErr)
	a.metrics.ObserveOperation(op.Name, op.Status)

	if err := a.history.FinishOperation(ctx, op.ID, op.Status); err != nil {
		a.logger.Warn("failed to finish operation record", "id", op.ID, "error", err)
	}
	return runErr
}

// Health pings the backend. It is not recorded in the history.
func (a *FTApp) Health(ctx context.Context) (*api.HealthResponse, error) {
	return a.client.Health(ctx)
}

// List hydrates from the snapshot and, unless cached is set, reloads from the
// backend. On a failed load it returns the cached flights together with the error.
func (a *FTApp) List(ctx context.Context, cached bool) ([]model.Flight, error) {
	a.tracker.Hydrate(ctx)
	if cached {
		return a.tracker.Flights(), nil
	}
	err := a.record(ctx, NewOperation(OpLoad, ""), func() error {
		return a.tracker.Load(ctx)
	})
	return a.tracker.Flights(), err
}

// Add validates raw input and registers the flight. Invalid input makes no
// request and is not recorded.
func (a *FTApp) Add(ctx context.Context, raw string) (model.Flight, error) {
	flightNumber, err := ft.NormalizeFlightNumber(raw)
	if err != nil {
		return model.Flight{}, err
	}

	a.tracker.Hydrate(ctx)
	var flight model.Flight
	err = a.record(ctx, NewOperation(OpCreate, flightNumber), func() error {
		var err error
		flight, err = a.tracker.Create(ctx, flightNumber)
		return err
	})
	return flight, err
}

// Delete removes the flight with id.
func (a *FTApp) Delete(ctx context.Context, id string) error {
	a.tracker.Hydrate(ctx)
	return a.record(ctx, NewOperation(OpDelete, id), func() error {
		return a.tracker.Delete(ctx, id)
	})
}

// Refresh asks the backend to recompute statuses and returns the updated
// count and the reloaded collection.
func (a *FTApp) Refresh(ctx context.Context) (int, []model.Flight, error) {
	a.tracker.Hydrate(ctx)
	var updated int
	err := a.record(ctx, NewOperation(OpRefresh, ""), func() error {
		var err error
		updated, err = a.tracker.RefreshAll(ctx)
		return err
	})
	return updated, a.tracker.Flights(), err
}

// History returns the most recent operations, newest first.
func (a *FTApp) History(ctx context.Context, limit int) ([]*model.Operation, error) {
	return a.history.ListOperations(ctx, limit)
}

// Err returns the tracker's current user-facing error message.
func (a *FTApp) Err() string { return a.tracker.Err() }

// Close writes the metrics textfile if configured and closes all resources.
func (a *FTApp) Close() error {
	var errs []error

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing snapshot store: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return errors.Join(errs...)
}

// SetupEncryption generates the snapshot key pair for cfg, protected by passphrase.
func SetupEncryption(cfg config.EncryptionConfig, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption: %w", err)
	}
	return nil
}
