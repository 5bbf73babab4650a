package dateutil

import (
	"testing"
	"time"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		weekStart time.Weekday
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "June 2025 Sunday start",
			anchor:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			weekStart: time.Sunday,
			wantFirst: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), // June 1 is a Sunday
			wantLast:  time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "January 2025 Sunday start",
			anchor:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), // Wednesday
			weekStart: time.Sunday,
			wantFirst: time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "June 2025 Monday start",
			anchor:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			weekStart: time.Monday,
			wantFirst: time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := MonthGrid(tt.anchor, tt.weekStart)

			if len(days) != GridDays {
				t.Fatalf("MonthGrid() returned %d days, want %d", len(days), GridDays)
			}
			if len(days)%7 != 0 {
				t.Errorf("grid length %d is not a multiple of 7", len(days))
			}

			if !days[0].Equal(tt.wantFirst) {
				t.Errorf("first day = %v, want %v", days[0], tt.wantFirst)
			}
			if !days[len(days)-1].Equal(tt.wantLast) {
				t.Errorf("last day = %v, want %v", days[len(days)-1], tt.wantLast)
			}

			if days[0].Weekday() != tt.weekStart {
				t.Errorf("grid starts on %v, want %v", days[0].Weekday(), tt.weekStart)
			}
			wantEnd := (tt.weekStart + 6) % 7
			if days[len(days)-1].Weekday() != wantEnd {
				t.Errorf("grid ends on %v, want %v", days[len(days)-1].Weekday(), wantEnd)
			}

			// Every day of the anchor month must be present
			seen := make(map[string]bool, len(days))
			for _, d := range days {
				seen[FormatDate(d)] = true
			}
			first := StartOfMonth(tt.anchor)
			for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
				if !seen[FormatDate(d)] {
					t.Errorf("grid is missing %s", FormatDate(d))
				}
			}

			// Consecutive dates, no gaps
			for i := 1; i < len(days); i++ {
				if !days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
					t.Errorf("gap between %v and %v", days[i-1], days[i])
				}
			}
		})
	}
}

func TestSplitWeeks(t *testing.T) {
	days := MonthGrid(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Sunday)

	weeks, err := SplitWeeks(days)
	if err != nil {
		t.Fatalf("SplitWeeks() error = %v", err)
	}

	if len(weeks) != 6 {
		t.Errorf("SplitWeeks() returned %d weeks, want 6", len(weeks))
	}
	for i, week := range weeks {
		if len(week) != 7 {
			t.Errorf("week %d has %d days, want 7", i, len(week))
		}
	}

	// Order preserved
	if !weeks[0][0].Equal(days[0]) {
		t.Errorf("first week starts at %v, want %v", weeks[0][0], days[0])
	}
	if !weeks[5][6].Equal(days[41]) {
		t.Errorf("last week ends at %v, want %v", weeks[5][6], days[41])
	}
}

func TestSplitWeeksRejectsPartialWeek(t *testing.T) {
	days := make([]time.Time, 10)
	if _, err := SplitWeeks(days); err == nil {
		t.Error("SplitWeeks() expected error for length not divisible by 7, got nil")
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-06-07", true},  // Saturday
		{"2025-06-08", true},  // Sunday
		{"2025-06-09", false}, // Monday
		{"2025-06-13", false}, // Friday
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := ParseDate(tt.date)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.date, err)
			}
			if got := IsWeekend(d); got != tt.want {
				t.Errorf("IsWeekend(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	if !IsSameDay(a, b) {
		t.Error("IsSameDay() = false for same calendar day")
	}
	if IsSameDay(a, c) {
		t.Error("IsSameDay() = true for different days")
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2025-06")
	if err != nil {
		t.Fatalf("ParseMonth() error = %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseMonth() = %v, want %v", got, want)
	}

	if _, err := ParseMonth("June 2025"); err == nil {
		t.Error("ParseMonth() expected error for invalid input, got nil")
	}
}
