package recurring

import (
	"time"
)

// SentinelDays is returned when a stored due date cannot be parsed. Large
// enough that no due-proximity window ever treats the obligation as due soon.
const SentinelDays = 1 << 30

var dueDateFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// DaysUntilDue returns the calendar-day difference between the obligation's
// next due date and now. Negative values mean overdue. A due date that no
// known layout accepts yields SentinelDays; projection never fails and never
// signals a false "due soon".
func DaysUntilDue(ob *Obligation, now time.Time) int {
	due, ok := parseDueDate(ob.NextDue)
	if !ok {
		return SentinelDays
	}

	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)

	return int(dueDay.Sub(nowDay).Hours() / 24)
}

// IsDueWithin reports whether the obligation falls due within n calendar days
// of now.
func IsDueWithin(ob *Obligation, n int, now time.Time) bool {
	return DaysUntilDue(ob, now) <= n
}

// DueWithin filters obligations to those due within n calendar days of now,
// pairing each with its computed proximity.
func DueWithin(obligations []*Obligation, n int, now time.Time) []Upcoming {
	var upcoming []Upcoming
	for _, ob := range obligations {
		days := DaysUntilDue(ob, now)
		if days <= n {
			upcoming = append(upcoming, Upcoming{Obligation: ob, DaysUntilDue: days})
		}
	}
	return upcoming
}

// Upcoming is an obligation joined with its due-date proximity, as consumed
// by alert scheduling.
type Upcoming struct {
	*Obligation
	DaysUntilDue int `json:"daysUntilDue"`
}

func parseDueDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
