// Package week provides calendar-week math for the schedule board.
//
// All date handling works on calendar components (year, month, day), never
// on instants. A work order scheduled for "2026-03-09" belongs to March 9th
// in every timezone; converting through UTC instants would shift dates for
// users west of Greenwich.
package week

import (
	"fmt"
	"time"
)

// DayKeyFormat is the canonical calendar-date key layout.
const DayKeyFormat = "2006-01-02"

// DaysPerWeek is the number of days on the board.
const DaysPerWeek = 7

// DateKey formats a calendar date key from the time's own components.
func DateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// ParseDateKey parses a calendar date key into a midnight-UTC time. The
// result is only ever used for component math, never as an instant.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// Start returns the Sunday that begins the week containing t, at midnight
// in t's own calendar.
func Start(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// Day is one column of the board.
type Day struct {
	Date    time.Time
	Key     string
	Weekday time.Weekday
}

// Days returns the seven consecutive days of the week starting at start.
// The first day is always a Sunday when start came from Start.
func Days(start time.Time) [DaysPerWeek]Day {
	var days [DaysPerWeek]Day
	for i := range days {
		date := start.AddDate(0, 0, i)
		days[i] = Day{
			Date:    date,
			Key:     DateKey(date),
			Weekday: date.Weekday(),
		}
	}
	return days
}

// InWindow reports whether the date key falls inside [startKey, endKey],
// inclusive. Keys are fixed-width ISO dates, so lexical comparison matches
// chronological order exactly and no parsing is needed.
func InWindow(key, startKey, endKey string) bool {
	return key >= startKey && key <= endKey
}

// Shift returns the week start n weeks away from start. Negative n moves
// into the past.
func Shift(start time.Time, n int) time.Time {
	return start.AddDate(0, 0, n*DaysPerWeek)
}
