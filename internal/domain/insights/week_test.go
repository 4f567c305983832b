package insights

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want time.Time
	}{
		{
			name: "monday maps to itself",
			day:  time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "wednesday maps back to monday",
			day:  time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday maps back to monday, not forward",
			day:  time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "week start across month boundary",
			day:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.day)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestClosedWeek(t *testing.T) {
	win := ClosedWeek(time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))

	wantStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	if !win.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", win.Start, wantStart)
	}
	if !win.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", win.End, wantEnd)
	}
}

func TestPartialWeek(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	win := PartialWeek(now)

	if !win.Start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", win.Start)
	}
	if !win.End.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v", win.End)
	}
}

func TestWindowContains(t *testing.T) {
	win := ClosedWeek(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"start is inclusive", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"end is inclusive", time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), true},
		{"midweek", time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), false},
		{"day after", time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := win.Contains(tt.day); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}
