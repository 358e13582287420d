package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"ft-go/internal/ft"
	"ft-go/internal/model"
)

func TestRenderer_Flights(t *testing.T) {
	dep := time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		flights []model.Flight
		color   bool
		want    []string
		notWant []string
	}{
		{
			name:    "empty",
			flights: nil,
			want:    []string{"Tracked Flights (0)", "No flights are being tracked yet."},
		},
		{
			name: "absent times print N/A",
			flights: []model.Flight{
				{ID: "f1", FlightNumber: "AA100", Status: model.StatusAwaiting},
				{ID: "f2", FlightNumber: "BA200", Status: model.StatusDeparted, ActualDepartureTime: &dep},
			},
			want: []string{
				"Tracked Flights (2)",
				"Awaiting: 1  Departed: 1  Arrived: 0",
				"Departure: N/A",
				"Departure: 2024-01-15 09:05",
			},
			notWant: []string{"\x1b["},
		},
		{
			name:    "colors on a terminal",
			flights: []model.Flight{{ID: "f1", FlightNumber: "AA100", Status: model.StatusArrived}},
			color:   true,
			want:    []string{"\x1b[32mARRIVED  \x1b[0m"},
		},
		{
			name:    "unknown status is shown verbatim without color",
			flights: []model.Flight{{ID: "f1", FlightNumber: "AA100", Status: "DELAYED"}},
			color:   true,
			want:    []string{"DELAYED"},
			notWant: []string{"\x1b["},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := &renderer{w: &buf, color: tt.color, loc: time.UTC}
			r.flights(tt.flights)

			got := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("output unexpectedly contains %q:\n%s", nw, got)
				}
			}
		})
	}
}

func TestRenderer_Operations(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	end := start.Add(1250 * time.Millisecond)

	var buf bytes.Buffer
	r := &renderer{w: &buf, loc: time.UTC}
	r.operations([]*model.Operation{
		{ID: 2, Name: "Create", Parameters: "AA100", Status: ft.OperationRunning, StartedAt: start},
		{ID: 1, Name: "Load", Status: ft.OperationSuccess, StartedAt: start, FinishedAt: &end},
	})

	got := buf.String()
	for _, want := range []string{"#2  Create", "#1  Load", "2024-01-15 10:30:00", "1.25s"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	buf.Reset()
	r.operations(nil)
	if !strings.Contains(buf.String(), "No operations recorded.") {
		t.Errorf("empty history output = %q", buf.String())
	}
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("POST /flights: HTTP error! status: 500")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "create failure hides cause", err: fmt.Errorf("%w: %w", ft.ErrCreateFailed, cause), want: "Failed to add flight"},
		{name: "validation", err: ft.ErrFlightNumberTooShort, want: "Flight number must be at least 3 characters"},
		{name: "health", err: fmt.Errorf("%w: %w", errHealthFailed, cause), want: "Failed to connect to backend"},
		{name: "other errors pass through", err: errors.New("reading config: bad toml"), want: "reading config: bad toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Errorf("userMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
