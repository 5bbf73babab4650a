package dateutil

import (
	"fmt"
	"time"
)

// ISODate is the canonical date layout used everywhere in the planner
const ISODate = "2006-01-02"

// GridDays is the number of dates in a month grid (six complete weeks)
const GridDays = 42

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the first day of the month containing date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// MonthGrid returns the 42 dates of the display grid for anchor's month.
// The grid starts at the weekStart day on/before the first of the month
// and always spans six complete weeks, so every day of the month is
// contained and the layout height never changes between months.
func MonthGrid(anchor time.Time, weekStart time.Weekday) []time.Time {
	first := StartOfMonth(anchor)

	back := int(first.Weekday() - weekStart)
	if back < 0 {
		back += 7
	}
	start := first.AddDate(0, 0, -back)

	days := make([]time.Time, GridDays)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// SplitWeeks splits grid days into consecutive 7-date weeks in original
// order. A length that is not a multiple of 7 is a programmer error.
func SplitWeeks(days []time.Time) ([][]time.Time, error) {
	if len(days)%7 != 0 {
		return nil, fmt.Errorf("grid length %d is not a multiple of 7", len(days))
	}

	weeks := make([][]time.Time, 0, len(days)/7)
	for i := 0; i < len(days); i += 7 {
		weeks = append(weeks, days[i:i+7])
	}
	return weeks, nil
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same calendar day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// FormatDate formats a date as yyyy-MM-dd
func FormatDate(date time.Time) string {
	return date.Format(ISODate)
}

// ParseDate parses a yyyy-MM-dd date string
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(ISODate, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t, nil
}

// ParseMonth parses a yyyy-MM month anchor string
func ParseMonth(monthStr string) (time.Time, error) {
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", monthStr, err)
	}
	return t, nil
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
