package ft

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"ft-go/internal/model"
)

// Tracker owns the in-memory flight collection and mirrors it into a
// SnapshotStore. The server is authoritative: every successful operation
// overwrites the snapshot wholesale, and a failed operation leaves both the
// collection and the snapshot untouched.
//
// Operations are serialized: a second call waits until the first finishes.
// Flights and Err never wait on an in-flight request.
type Tracker struct {
	backend Backend
	store   SnapshotStore
	logger  Logger
	key     string

	opMu sync.Mutex

	mu      sync.RWMutex
	flights []model.Flight
	errMsg  string
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithSnapshotKey overrides DefaultSnapshotKey.
func WithSnapshotKey(key string) TrackerOption {
	return func(t *Tracker) {
		if key != "" {
			t.key = key
		}
	}
}

// NewTracker creates a Tracker with an empty collection. Call Hydrate to seed
// it from the snapshot, then Load to replace it with the server's state.
func NewTracker(backend Backend, store SnapshotStore, logger Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		backend: backend,
		store:   store,
		logger:  logger,
		key:     DefaultSnapshotKey,
		flights: []model.Flight{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Hydrate seeds the collection from the snapshot. It is best-effort: a missing,
// unreadable or corrupt snapshot yields an empty collection.
func (t *Tracker) Hydrate(ctx context.Context) {
	t.opMu.Lock()
	defer t.opMu.Unlock()

	flights := []model.Flight{}
	data, err := t.store.Get(ctx, t.key)
	switch {
	case err != nil:
		t.logger.Warn("snapshot unavailable, starting empty", "key", t.key, "error", err)
	case data == nil:
		t.logger.Debug("no snapshot stored", "key", t.key)
	default:
		var cached []model.Flight
		if err := json.Unmarshal(data, &cached); err != nil {
			t.logger.Warn("discarding corrupt snapshot", "key", t.key, "error", err)
		} else if cached != nil {
			flights = cached
		}
	}

	t.mu.Lock()
	t.flights = flights
	t.mu.Unlock()
	t.logger.Debug("snapshot hydrated", "count", len(flights))
}

// Load replaces the collection with the backend's and persists it.
func (t *Tracker) Load(ctx context.Context) error {
	t.opMu.Lock()
	defer t.opMu.Unlock()
	return t.load(ctx, ErrLoadFailed)
}

func (t *Tracker) load(ctx context.Context, failure error) error {
	flights, err := t.backend.ListFlights(ctx)
	if err != nil {
		t.logger.Error("loading flights", "error", err)
		return t.fail(failure, err)
	}
	if flights == nil {
		flights = []model.Flight{}
	}

	t.mu.Lock()
	t.flights = flights
	t.errMsg = ""
	t.mu.Unlock()

	t.logger.Info("flights loaded", "count", len(flights))
	t.persist(ctx, flights)
	return nil
}

// Create registers an already-normalized flight number and appends the
// backend's record to the end of the collection. No re-fetch happens.
func (t *Tracker) Create(ctx context.Context, flightNumber string) (model.Flight, error) {
	t.opMu.Lock()
	defer t.opMu.Unlock()

	flight, err := t.backend.CreateFlight(ctx, flightNumber)
	if err != nil {
		t.logger.Error("adding flight", "flight_number", flightNumber, "error", err)
		return model.Flight{}, t.fail(ErrCreateFailed, err)
	}

	t.mu.Lock()
	next := append(slices.Clone(t.flights), flight)
	t.flights = next
	t.mu.Unlock()

	t.logger.Info("flight added", "id", flight.ID, "flight_number", flight.FlightNumber)
	t.persist(ctx, next)
	return flight, nil
}

// Delete removes the flight with id. Existence is not checked locally; an
// unknown id is reported by the backend.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.opMu.Lock()
	defer t.opMu.Unlock()

	if err := t.backend.DeleteFlight(ctx, id); err != nil {
		t.logger.Error("deleting flight", "id", id, "error", err)
		return t.fail(ErrDeleteFailed, err)
	}

	t.mu.Lock()
	next := slices.Clone(t.flights)
	if i := slices.IndexFunc(next, func(f model.Flight) bool { return f.ID == id }); i >= 0 {
		next = slices.Delete(next, i, i+1)
	}
	t.flights = next
	t.mu.Unlock()

	t.logger.Info("flight deleted", "id", id)
	t.persist(ctx, next)
	return nil
}

// RefreshAll asks the backend to recompute every status, then reloads the
// collection. It returns the backend's count of updated flights.
func (t *Tracker) RefreshAll(ctx context.Context) (int, error) {
	t.opMu.Lock()
	defer t.opMu.Unlock()

	updated, err := t.backend.RefreshFlights(ctx)
	if err != nil {
		t.logger.Error("refreshing flights", "error", err)
		return 0, t.fail(ErrRefreshFailed, err)
	}
	t.logger.Info("backend refresh complete", "updated", updated)

	if err := t.load(ctx, ErrRefreshFailed); err != nil {
		return updated, err
	}
	return updated, nil
}

// Flights returns a copy of the collection in server order.
func (t *Tracker) Flights() []model.Flight {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.flights)
}

// Err returns the user-facing message of the last failed operation, or "".
func (t *Tracker) Err() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errMsg
}

// ClearError dismisses the current error without retrying anything.
func (t *Tracker) ClearError() {
	t.mu.Lock()
	t.errMsg = ""
	t.mu.Unlock()
}

func (t *Tracker) fail(msg, cause error) error {
	t.mu.Lock()
	t.errMsg = msg.Error()
	t.mu.Unlock()
	return &opError{msg: msg, cause: cause}
}

// persist overwrites the snapshot with flights. A failed write is logged and
// otherwise ignored: the operation already succeeded against the server.
func (t *Tracker) persist(ctx context.Context, flights []model.Flight) {
	data, err := encodeSnapshot(flights)
	if err != nil {
		t.logger.Warn("encoding snapshot", "error", err)
		return
	}
	if err := t.store.Put(ctx, t.key, data); err != nil {
		t.logger.Warn("writing snapshot", "key", t.key, "error", err)
		return
	}
	t.logger.Debug("snapshot written", "key", t.key, "count", len(flights), "bytes", len(data))
}

func encodeSnapshot(flights []model.Flight) ([]byte, error) {
	data, err := json.Marshal(flights)
	if err != nil {
		return nil, fmt.Errorf("marshaling flights: %w", err)
	}
	return data, nil
}
