package ft

import (
	"context"

	"ft-go/internal/model"
)

// Backend is the remote flight service. The server is authoritative for every
// field of every flight; the tracker only mirrors what it returns.
type Backend interface {
	// ListFlights returns the full collection in server order.
	ListFlights(ctx context.Context) ([]model.Flight, error)

	// CreateFlight registers a flight number and returns the server-built record.
	CreateFlight(ctx context.Context, flightNumber string) (model.Flight, error)

	// DeleteFlight removes the flight with the given id.
	DeleteFlight(ctx context.Context, id string) error

	// RefreshFlights asks the backend to recompute every status and returns
	// how many flights changed.
	RefreshFlights(ctx context.Context) (int, error)
}
