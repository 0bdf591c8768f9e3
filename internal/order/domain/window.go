package domain

import "time"

// DateWindow is a delivery-date filter, inclusive of both bounds by day.
type DateWindow struct {
	From time.Time
	To   time.Time
}

// NewDateWindow truncates both bounds to midnight UTC. A To before From
// yields an empty window rather than an error.
func NewDateWindow(from, to time.Time) DateWindow {
	return DateWindow{From: dayOf(from), To: dayOf(to)}
}

// WindowForDays covers today through n days ahead.
func WindowForDays(now time.Time, n int) DateWindow {
	start := dayOf(now)
	return DateWindow{From: start, To: start.AddDate(0, 0, n)}
}

func (w DateWindow) Contains(t time.Time) bool {
	d := dayOf(t)
	return !d.Before(w.From) && !d.After(w.To)
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
