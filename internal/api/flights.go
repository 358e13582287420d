package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"ft-go/internal/model"
)

// Backend endpoints.
const (
	PathHealth         = "/health"
	PathFlights        = "/flights"
	PathRefreshFlights = "/flights/refresh"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// ListFlightsResponse is returned by GET /flights. Stats is kept raw: the
// client derives its own counts and does not depend on the backend's shape.
type ListFlightsResponse struct {
	Flights []model.Flight  `json:"flights"`
	Stats   json.RawMessage `json:"stats,omitempty"`
	Count   int             `json:"count"`
}

func (r *ListFlightsResponse) validate() error {
	if r.Flights == nil {
		return errors.New(`response has no "flights" array`)
	}
	return nil
}

// CreateFlightRequest is the body of POST /flights.
type CreateFlightRequest struct {
	FlightNumber string `json:"flightNumber"`
}

// CreateFlightResponse is returned by POST /flights.
type CreateFlightResponse struct {
	Flight  model.Flight `json:"flight"`
	Message string       `json:"message"`
}

func (r *CreateFlightResponse) validate() error {
	if r.Flight.ID == "" {
		return errors.New("created flight has no id")
	}
	return nil
}

// MessageResponse is returned by DELETE /flights/{id}.
type MessageResponse struct {
	Message string `json:"message"`
}

// RefreshResponse is returned by POST /flights/refresh.
type RefreshResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updatedCount"`
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.Get(ctx, PathHealth, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListFlights returns every tracked flight in server order.
func (c *Client) ListFlights(ctx context.Context) ([]model.Flight, error) {
	var resp ListFlightsResponse
	if err := c.Get(ctx, PathFlights, &resp); err != nil {
		return nil, err
	}
	return resp.Flights, nil
}

// CreateFlight registers flightNumber and returns the backend's record.
func (c *Client) CreateFlight(ctx context.Context, flightNumber string) (model.Flight, error) {
	var resp CreateFlightResponse
	if err := c.Post(ctx, PathFlights, CreateFlightRequest{FlightNumber: flightNumber}, &resp); err != nil {
		return model.Flight{}, err
	}
	return resp.Flight, nil
}

// DeleteFlight removes the flight with id.
func (c *Client) DeleteFlight(ctx context.Context, id string) error {
	return c.Delete(ctx, PathFlights+"/"+url.PathEscape(id), &MessageResponse{})
}

// RefreshFlights triggers a backend-side status refresh of every flight.
func (c *Client) RefreshFlights(ctx context.Context) (int, error) {
	var resp RefreshResponse
	if err := c.Post(ctx, PathRefreshFlights, struct{}{}, &resp); err != nil {
		return 0, err
	}
	return resp.UpdatedCount, nil
}
