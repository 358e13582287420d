package ft_test

import (
	"testing"

	"ft-go/internal/ft"
	"ft-go/internal/model"
)

func TestSummarize(t *testing.T) {
	flights := []model.Flight{
		{Status: model.StatusAwaiting},
		{Status: model.StatusAwaiting},
		{Status: model.StatusDeparted},
		{Status: model.StatusArrived},
		{Status: "CANCELLED"},
	}

	got := ft.Summarize(flights)
	want := model.FlightStats{Total: 5, Awaiting: 2, Departed: 1, Arrived: 1}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	if empty := ft.Summarize(nil); empty != (model.FlightStats{}) {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}
