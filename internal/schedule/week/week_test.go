package week

import (
	"testing"
	"time"
)

func TestStartIsSunday(t *testing.T) {
	// 2026-03-11 is a Wednesday; its week starts Sunday 2026-03-08.
	for dayOffset := 0; dayOffset < DaysPerWeek; dayOffset++ {
		input := time.Date(2026, 3, 8+dayOffset, 15, 30, 0, 0, time.UTC)
		start := Start(input)
		if start.Weekday() != time.Sunday {
			t.Fatalf("Start(%s) = %s, not a Sunday", DateKey(input), DateKey(start))
		}
		if got := DateKey(start); got != "2026-03-08" {
			t.Fatalf("Start(%s) = %s, want 2026-03-08", DateKey(input), got)
		}
	}
}

func TestDaysAreConsecutiveFromSunday(t *testing.T) {
	start := Start(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	days := Days(start)

	if days[0].Weekday != time.Sunday {
		t.Fatalf("first day is %s, want Sunday", days[0].Weekday)
	}

	want := []string{
		"2026-03-08", "2026-03-09", "2026-03-10", "2026-03-11",
		"2026-03-12", "2026-03-13", "2026-03-14",
	}
	for i, day := range days {
		if day.Key != want[i] {
			t.Fatalf("day %d key = %s, want %s", i, day.Key, want[i])
		}
		if day.Weekday != time.Weekday(i) {
			t.Fatalf("day %d weekday = %s, want %s", i, day.Weekday, time.Weekday(i))
		}
	}
}

func TestDaysCrossMonthBoundary(t *testing.T) {
	// Week containing 2026-03-31 runs into April.
	days := Days(Start(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	if days[0].Key != "2026-03-29" {
		t.Fatalf("week start = %s, want 2026-03-29", days[0].Key)
	}
	if days[6].Key != "2026-04-04" {
		t.Fatalf("week end = %s, want 2026-04-04", days[6].Key)
	}
}

func TestDateKeyUsesCalendarComponentsNotInstants(t *testing.T) {
	// 2026-03-09 23:00 in UTC-5 is 2026-03-10 04:00 UTC. The key must stay
	// on the 9th because it reflects the local calendar date.
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 3, 9, 23, 0, 0, 0, loc)

	if got := DateKey(local); got != "2026-03-09" {
		t.Fatalf("DateKey = %s, want 2026-03-09", got)
	}
	if got := DateKey(local.UTC()); got != "2026-03-10" {
		// Sanity check that the instant really crosses midnight in UTC.
		t.Fatalf("UTC key = %s, want 2026-03-10", got)
	}
}

func TestInWindowLexicalComparison(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"2026-03-08", true},
		{"2026-03-11", true},
		{"2026-03-14", true},
		{"2026-03-07", false},
		{"2026-03-15", false},
		{"2025-12-31", false},
	}
	for _, tc := range cases {
		if got := InWindow(tc.key, "2026-03-08", "2026-03-14"); got != tc.want {
			t.Fatalf("InWindow(%s) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestShift(t *testing.T) {
	start := Start(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))

	next := Shift(start, 1)
	if got := DateKey(next); got != "2026-03-15" {
		t.Fatalf("Shift(+1) = %s, want 2026-03-15", got)
	}
	if next.Weekday() != time.Sunday {
		t.Fatalf("shifted week start is %s, not Sunday", next.Weekday())
	}

	prev := Shift(start, -2)
	if got := DateKey(prev); got != "2026-02-22" {
		t.Fatalf("Shift(-2) = %s, want 2026-02-22", got)
	}
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	parsed, err := ParseDateKey("2026-03-09")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := DateKey(parsed); got != "2026-03-09" {
		t.Fatalf("round trip = %s, want 2026-03-09", got)
	}

	if _, err := ParseDateKey("not-a-date"); err == nil {
		t.Fatal("expected error for malformed key")
	}
}
