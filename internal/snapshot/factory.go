package snapshot

import (
	"context"
	"fmt"

	"ft-go/internal/config"
	"ft-go/internal/ft"
)

// NewStoreFromConfig creates a SnapshotStore based on the snapshot config type.
// The "sqlite" type shares the history database and is opened by the caller.
func NewStoreFromConfig(ctx context.Context, cfg config.SnapshotConfig) (ft.SnapshotStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		return NewFileSystemStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, cfg)
	case "redis":
		return NewRedisStore(ctx, cfg)
	case "sqlite":
		return nil, fmt.Errorf("sqlite snapshot store is provided by the database")
	default:
		return nil, fmt.Errorf("unknown snapshot type: %q", cfg.Type)
	}
}
