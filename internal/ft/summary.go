package ft

import "ft-go/internal/model"

// Summarize counts flights per status. Unknown statuses only count toward Total.
func Summarize(flights []model.Flight) model.FlightStats {
	stats := model.FlightStats{Total: len(flights)}
	for _, f := range flights {
		switch f.Status {
		case model.StatusAwaiting:
			stats.Awaiting++
		case model.StatusDeparted:
			stats.Departed++
		case model.StatusArrived:
			stats.Arrived++
		}
	}
	return stats
}
