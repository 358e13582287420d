package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"ft-go/internal/ft"
	"ft-go/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// ANSI colors per known status. Unknown statuses print uncolored.
var statusColors = map[model.FlightStatus]string{
	model.StatusAwaiting: "\x1b[33m",
	model.StatusDeparted: "\x1b[34m",
	model.StatusArrived:  "\x1b[32m",
}

const colorReset = "\x1b[0m"

// renderer prints flights as a plain-text table.
type renderer struct {
	w     io.Writer
	color bool
	loc   *time.Location
}

// newStdoutRenderer enables colors only when stdout is a terminal.
func newStdoutRenderer() *renderer {
	return &renderer{
		w:     os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
		loc:   time.Local,
	}
}

func (r *renderer) flights(flights []model.Flight) {
	fmt.Fprintf(r.w, "Tracked Flights (%d)\n", len(flights))
	if len(flights) == 0 {
		fmt.Fprintln(r.w, "No flights are being tracked yet.")
		return
	}

	stats := ft.Summarize(flights)
	fmt.Fprintf(r.w, "Awaiting: %d  Departed: %d  Arrived: %d\n\n", stats.Awaiting, stats.Departed, stats.Arrived)

	for _, f := range flights {
		fmt.Fprintf(r.w, "%-10s %s  Departure: %-16s  Arrival: %-16s  %s\n",
			f.FlightNumber,
			r.status(f.Status),
			r.timestamp(f.ActualDepartureTime),
			r.timestamp(f.ActualArrivalTime),
			f.ID,
		)
	}
}

// status pads before coloring so escape codes do not break alignment.
func (r *renderer) status(s model.FlightStatus) string {
	padded := fmt.Sprintf("%-9s", s)
	if !r.color || !s.IsKnown() {
		return padded
	}
	return statusColors[s] + padded + colorReset
}

func (r *renderer) timestamp(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.In(r.loc).Format(timeLayout)
}

func (r *renderer) operations(ops []*model.Operation) {
	if len(ops) == 0 {
		fmt.Fprintln(r.w, "No operations recorded.")
		return
	}
	for _, op := range ops {
		duration := ""
		if op.FinishedAt != nil {
			duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
		}
		fmt.Fprintf(r.w, "#%d  %-8s  %-12s  %s  %-8s  %s\n",
			op.ID,
			op.Name,
			op.Parameters,
			op.StartedAt.In(r.loc).Format("2006-01-02 15:04:05"),
			op.Status,
			duration,
		)
	}
}

// errHealthFailed is printed when the backend does not answer its health check.
var errHealthFailed = errors.New("Failed to connect to backend")

// userFacing lists the errors whose message is shown without the underlying cause.
var userFacing = []error{
	ft.ErrLoadFailed,
	ft.ErrCreateFailed,
	ft.ErrDeleteFailed,
	ft.ErrRefreshFailed,
	ft.ErrFlightNumberRequired,
	ft.ErrFlightNumberTooShort,
	errHealthFailed,
}

// userMessage maps err to the line printed before exiting. Backend detail is
// kept in the log file.
func userMessage(err error) string {
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
