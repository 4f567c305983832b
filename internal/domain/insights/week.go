package insights

import (
	"time"
)

// Window is an inclusive range of calendar days used as the unit of budget
// and goal evaluation.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeekStart returns the Monday of d's week at UTC midnight.
func WeekStart(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// ClosedWeek returns the Monday-to-Sunday window containing d.
func ClosedWeek(d time.Time) Window {
	start := WeekStart(d)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// PartialWeek returns the Monday-to-today window for the current in-progress
// week.
func PartialWeek(now time.Time) Window {
	return Window{
		Start: WeekStart(now),
		End:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}
