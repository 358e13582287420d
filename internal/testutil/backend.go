package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"ft-go/internal/model"
)

// RecordedRequest is one request received by a FakeBackend.
type RecordedRequest struct {
	Method string
	Path   string
	Body   string
	Header http.Header
}

// FakeBackend is an in-memory flight backend served over HTTP. It implements
// the same endpoints as the real service and lets tests script failures.
type FakeBackend struct {
	server *httptest.Server
	clock  *StubClock
	start  time.Time

	mu       sync.Mutex
	flights  []model.Flight
	nextID   int
	failures map[string][]int
	requests []RecordedRequest
}

// NewFakeBackend starts a FakeBackend that is closed when the test completes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	clock := FixedClock()
	b := &FakeBackend{
		clock:    clock,
		start:    clock.Now(),
		failures: make(map[string][]int),
	}

	r := chi.NewRouter()
	r.Use(b.record, b.injectFailures)
	r.Get("/health", b.health)
	r.Get("/flights", b.listFlights)
	r.Post("/flights", b.createFlight)
	r.Post("/flights/refresh", b.refreshFlights)
	r.Delete("/flights/{id}", b.deleteFlight)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the base URL of the backend.
func (b *FakeBackend) URL() string { return b.server.URL }

// Clock returns the clock used for server-side timestamps.
func (b *FakeBackend) Clock() *StubClock { return b.clock }

// Seed replaces the server-side collection.
func (b *FakeBackend) Seed(flights ...model.Flight) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flights = slices.Clone(flights)
}

// Flights returns the server-side collection.
func (b *FakeBackend) Flights() []model.Flight {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.flights)
}

// FailNext makes the next times requests matching method and path answer
// with status instead of being handled.
func (b *FakeBackend) FailNext(method, path string, status, times int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	for range times {
		b.failures[key] = append(b.failures[key], status)
	}
}

// Requests returns every request received so far, in order.
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// RequestCount returns how many requests matched method and path.
func (b *FakeBackend) RequestCount(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			Header: r.Header.Clone(),
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		b.mu.Lock()
		queue := b.failures[key]
		status := 0
		if len(queue) > 0 {
			status = queue[0]
			b.failures[key] = queue[1:]
		}
		b.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{
				"error":   http.StatusText(status),
				"message": "injected failure",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) health(w http.ResponseWriter, _ *http.Request) {
	now := b.clock.Now()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": now.Format(time.RFC3339),
		"uptime":    now.Sub(b.start).Seconds(),
	})
}

func (b *FakeBackend) listFlights(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	flights := slices.Clone(b.flights)
	b.mu.Unlock()
	if flights == nil {
		flights = []model.Flight{}
	}

	stats := map[string]int{"total": len(flights)}
	for _, f := range flights {
		stats[string(f.Status)]++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"flights": flights,
		"stats":   stats,
		"count":   len(flights),
	})
}

func (b *FakeBackend) createFlight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FlightNumber string `json:"flightNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FlightNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Bad Request",
			"message": "flightNumber is required",
		})
		return
	}

	b.mu.Lock()
	b.nextID++
	now := b.clock.Now()
	flight := model.Flight{
		ID:           fmt.Sprintf("flight-%d", b.nextID),
		FlightNumber: req.FlightNumber,
		Status:       model.StatusAwaiting,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b.flights = append(b.flights, flight)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"flight":  flight,
		"message": "Flight added successfully",
	})
}

func (b *FakeBackend) deleteFlight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	i := slices.IndexFunc(b.flights, func(f model.Flight) bool { return f.ID == id })
	if i >= 0 {
		b.flights = slices.Delete(b.flights, i, i+1)
	}
	b.mu.Unlock()

	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Not Found",
			"message": "Flight not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Flight deleted successfully"})
}

// refreshFlights advances every flight one step: AWAITING departs, DEPARTED arrives.
func (b *FakeBackend) refreshFlights(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	now := b.clock.Now()
	updated := 0
	for i := range b.flights {
		f := &b.flights[i]
		switch f.Status {
		case model.StatusAwaiting:
			f.Status = model.StatusDeparted
			f.ActualDepartureTime = &now
		case model.StatusDeparted:
			f.Status = model.StatusArrived
			f.ActualArrivalTime = &now
		default:
			continue
		}
		f.UpdatedAt = now
		updated++
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Flights refreshed",
		"updatedCount": updated,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
