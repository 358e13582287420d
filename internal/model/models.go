package model

import (
	"encoding/json"
	"time"
)

// FlightStatus is the backend-computed lifecycle state of a tracked flight.
type FlightStatus string

const (
	StatusAwaiting FlightStatus = "AWAITING"
	StatusDeparted FlightStatus = "DEPARTED"
	StatusArrived  FlightStatus = "ARRIVED"
)

// IsKnown reports whether s is one of the statuses the backend documents.
// Unknown values are kept verbatim; callers decide how to display them.
func (s FlightStatus) IsKnown() bool {
	switch s {
	case StatusAwaiting, StatusDeparted, StatusArrived:
		return true
	default:
		return false
	}
}

// Flight is a tracked flight. Identity, status and all timestamps are assigned
// by the backend; the client only ever supplies FlightNumber.
type Flight struct {
	ID                  string       `json:"id"`
	FlightNumber        string       `json:"flightNumber"`
	Status              FlightStatus `json:"status"`
	ActualDepartureTime *time.Time   `json:"actualDepartureTime,omitempty"`
	ActualArrivalTime   *time.Time   `json:"actualArrivalTime,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// UnmarshalJSON decodes a backend flight. Timestamps that are missing, empty or
// not RFC 3339 are treated as absent instead of failing the whole collection.
func (f *Flight) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                  string          `json:"id"`
		FlightNumber        string          `json:"flightNumber"`
		Status              FlightStatus    `json:"status"`
		ActualDepartureTime json.RawMessage `json:"actualDepartureTime"`
		ActualArrivalTime   json.RawMessage `json:"actualArrivalTime"`
		CreatedAt           json.RawMessage `json:"createdAt"`
		UpdatedAt           json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = Flight{
		ID:                  raw.ID,
		FlightNumber:        raw.FlightNumber,
		Status:              raw.Status,
		ActualDepartureTime: parseTimestamp(raw.ActualDepartureTime),
		ActualArrivalTime:   parseTimestamp(raw.ActualArrivalTime),
	}
	if t := parseTimestamp(raw.CreatedAt); t != nil {
		f.CreatedAt = *t
	}
	if t := parseTimestamp(raw.UpdatedAt); t != nil {
		f.UpdatedAt = *t
	}
	return nil
}

func parseTimestamp(raw json.RawMessage) *time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

// FlightStats is the per-status breakdown of a flight collection.
type FlightStats struct {
	Total    int `json:"total"`
	Awaiting int `json:"awaiting"`
	Departed int `json:"departed"`
	Arrived  int `json:"arrived"`
}

// Operation is one recorded CLI operation against the backend.
type Operation struct {
	ID         int64
	Name       string     // "Load", "Create", "Delete", "Refresh"
	Parameters string     // flight number, flight id, or empty
	Status     string     // "running", "success" or "error"
	StartedAt  time.Time
	FinishedAt *time.Time // nil while running
}
