package ft

import "context"

// DefaultSnapshotKey is the storage key holding the JSON flight array.
const DefaultSnapshotKey = "flights"

// SnapshotStore is the local persistent cache for the flight collection.
// Values are opaque bytes; the tracker owns the JSON encoding.
type SnapshotStore interface {
	// Get returns the stored value for key, or (nil, nil) when nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value for key wholesale. Implementations must never
	// leave a partially written value behind.
	Put(ctx context.Context, key string, data []byte) error

	// Close releases any held resources.
	Close() error
}
