package board

import (
	"testing"
	"time"

	"fieldservice_backend/internal/schedule/week"

	"github.com/google/uuid"
)

var weekStart = week.Start(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) // Sunday 2026-03-08

func strPtr(s string) *string     { return &s }
func hoursPtr(h float64) *float64 { return &h }

func tech(name string) Technician {
	return Technician{ID: uuid.New(), Name: name}
}

func orderFor(t Technician, dateKey string, hours float64) Order {
	return Order{
		ID:            uuid.New(),
		JobType:       "tank pumping",
		DateKey:       dateKey,
		TechnicianID:  &t.ID,
		DurationHours: hoursPtr(hours),
	}
}

func findRow(t *testing.T, b *Board, id uuid.UUID) *Row {
	t.Helper()
	for i := range b.Rows {
		if b.Rows[i].Technician.ID == id {
			return &b.Rows[i]
		}
	}
	t.Fatalf("row for technician %s not found", id)
	return nil
}

func TestBucketsByTechnicianAndDay(t *testing.T) {
	mike := tech("Mike Rodriguez")
	sarah := tech("Sarah Chen")

	orders := []Order{
		orderFor(mike, "2026-03-09", 2),
		orderFor(mike, "2026-03-09", 3),
		orderFor(sarah, "2026-03-10", 1.5),
	}

	b := Build(weekStart, []Technician{mike, sarah}, orders, Filter{})

	mikeRow := findRow(t, b, mike.ID)
	if got := len(mikeRow.Days[1].Cards); got != 2 { // Monday the 9th
		t.Fatalf("mike monday cards = %d, want 2", got)
	}
	if mikeRow.Days[1].TotalHours != 5 {
		t.Fatalf("mike monday hours = %v, want 5", mikeRow.Days[1].TotalHours)
	}

	sarahRow := findRow(t, b, sarah.ID)
	if got := len(sarahRow.Days[2].Cards); got != 1 {
		t.Fatalf("sarah tuesday cards = %d, want 1", got)
	}
}

func TestLegacyNameFallbackExactMatchOnly(t *testing.T) {
	mike := tech("Mike Rodriguez")

	matched := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianName: strPtr("Mike Rodriguez")}
	caseMismatch := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianName: strPtr("mike rodriguez")}
	unknown := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianName: strPtr("Nobody Here")}

	b := Build(weekStart, []Technician{mike}, []Order{matched, caseMismatch, unknown}, Filter{})

	row := findRow(t, b, mike.ID)
	if got := len(row.Days[1].Cards); got != 1 {
		t.Fatalf("matched cards = %d, want 1", got)
	}
	if row.Days[1].Cards[0].ID != matched.ID {
		t.Fatalf("wrong order matched by name")
	}
	if b.UnmatchedCount() != 2 {
		t.Fatalf("unmatched = %d, want 2", b.UnmatchedCount())
	}
}

func TestUnknownTechnicianIDIsUnmatchedNotGuessed(t *testing.T) {
	mike := tech("Mike Rodriguez")
	ghost := uuid.New()

	o := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianID: &ghost}
	b := Build(weekStart, []Technician{mike}, []Order{o}, Filter{})

	if b.UnmatchedCount() != 1 || b.Unmatched[0] != o.ID {
		t.Fatalf("expected order in unmatched, got %v", b.Unmatched)
	}
	row := findRow(t, b, mike.ID)
	for _, day := range row.Days {
		if len(day.Cards) != 0 {
			t.Fatalf("unmatched order leaked into a bucket")
		}
	}
}

func TestUnassignedOrdersGetPseudoRow(t *testing.T) {
	o := Order{ID: uuid.New(), DateKey: "2026-03-12", DurationHours: hoursPtr(2)}
	b := Build(weekStart, nil, []Order{o}, Filter{})

	if got := len(b.Unassigned[4].Cards); got != 1 { // Thursday the 12th
		t.Fatalf("unassigned thursday cards = %d, want 1", got)
	}
	if b.UnmatchedCount() != 0 {
		t.Fatalf("unassigned order must not count as unmatched")
	}
}

func TestOrdersOutsideWeekExcluded(t *testing.T) {
	mike := tech("Mike Rodriguez")
	orders := []Order{
		orderFor(mike, "2026-03-07", 2), // Saturday before
		orderFor(mike, "2026-03-15", 2), // Sunday after
		orderFor(mike, "2026-03-08", 2), // first day, included
		orderFor(mike, "2026-03-14", 2), // last day, included
	}

	b := Build(weekStart, []Technician{mike}, orders, Filter{})

	row := findRow(t, b, mike.ID)
	if row.WeekHours != 4 {
		t.Fatalf("week hours = %v, want 4", row.WeekHours)
	}
	if b.UnmatchedCount() != 0 {
		t.Fatalf("out-of-week orders must be silently excluded, not unmatched")
	}
}

func TestDayCardsSortedByTimeWindowMissingLast(t *testing.T) {
	mike := tech("Mike Rodriguez")

	noWindow := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianID: &mike.ID}
	afternoon := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianID: &mike.ID, TimeWindowStart: strPtr("14:00:00")}
	morning := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianID: &mike.ID, TimeWindowStart: strPtr("08:00:00")}

	b := Build(weekStart, []Technician{mike}, []Order{noWindow, afternoon, morning}, Filter{})

	cards := findRow(t, b, mike.ID).Days[1].Cards
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}
	if cards[0].ID != morning.ID || cards[1].ID != afternoon.ID || cards[2].ID != noWindow.ID {
		t.Fatalf("wrong order: got %v, %v, %v", cards[0].ID, cards[1].ID, cards[2].ID)
	}
}

func TestMissingDurationDefaultsToOneHour(t *testing.T) {
	mike := tech("Mike Rodriguez")
	o := Order{ID: uuid.New(), DateKey: "2026-03-09", TechnicianID: &mike.ID}

	b := Build(weekStart, []Technician{mike}, []Order{o}, Filter{})

	cell := findRow(t, b, mike.ID).Days[1]
	if cell.TotalHours != DefaultDurationHours {
		t.Fatalf("total hours = %v, want %v", cell.TotalHours, DefaultDurationHours)
	}
	if cell.Cards[0].Hours != DefaultDurationHours {
		t.Fatalf("card hours = %v, want %v", cell.Cards[0].Hours, DefaultDurationHours)
	}
}

func TestLoadTiers(t *testing.T) {
	cases := []struct {
		hours float64
		want  LoadTier
	}{
		{0, TierAvailable},
		{0.5, TierLight},
		{3.99, TierLight},
		{4, TierModerate},
		{7.99, TierModerate},
		{8, TierFull},
		{9.99, TierFull},
		{10, TierOverloaded},
		{14, TierOverloaded},
	}
	for _, tc := range cases {
		if got := TierFor(tc.hours); got != tc.want {
			t.Fatalf("TierFor(%v) = %s, want %s", tc.hours, got, tc.want)
		}
	}
}

func TestRowsSortedBusiestFirst(t *testing.T) {
	light := tech("Al Light")
	busy := tech("Zed Busy")
	idle := tech("Ida Idle")

	orders := []Order{
		orderFor(light, "2026-03-09", 2),
		orderFor(busy, "2026-03-09", 6),
		orderFor(busy, "2026-03-10", 3),
	}

	b := Build(weekStart, []Technician{light, busy, idle}, orders, Filter{})

	if b.Rows[0].Technician.ID != busy.ID {
		t.Fatalf("busiest row first, got %s", b.Rows[0].Technician.Name)
	}
	if b.Rows[1].Technician.ID != light.ID {
		t.Fatalf("second row = %s, want Al Light", b.Rows[1].Technician.Name)
	}
	if b.Rows[2].Technician.ID != idle.ID {
		t.Fatalf("idle technician should still get a row, last")
	}
}

func TestStatusFilterDropsOrders(t *testing.T) {
	mike := tech("Mike Rodriguez")

	scheduled := orderFor(mike, "2026-03-09", 2)
	scheduled.Status = "scheduled"
	completed := orderFor(mike, "2026-03-09", 3)
	completed.Status = "completed"

	b := Build(weekStart, []Technician{mike}, []Order{scheduled, completed},
		Filter{Statuses: []string{"scheduled"}})

	row := findRow(t, b, mike.ID)
	if got := len(row.Days[1].Cards); got != 1 {
		t.Fatalf("cards = %d, want 1", got)
	}
	if row.Days[1].Cards[0].ID != scheduled.ID {
		t.Fatalf("filter kept the wrong order")
	}
	if row.WeekHours != 2 {
		t.Fatalf("week hours = %v, want 2", row.WeekHours)
	}
}

func TestTechnicianFilterKeepsSingleRow(t *testing.T) {
	mike := tech("Mike Rodriguez")
	sarah := tech("Sarah Chen")

	orders := []Order{
		orderFor(mike, "2026-03-09", 2),
		orderFor(sarah, "2026-03-10", 1),
	}

	b := Build(weekStart, []Technician{mike, sarah}, orders, Filter{TechnicianID: &sarah.ID})

	if len(b.Rows) != 1 || b.Rows[0].Technician.ID != sarah.ID {
		t.Fatalf("rows = %v, want only sarah", b.Rows)
	}

	byName := Build(weekStart, []Technician{mike, sarah}, orders, Filter{TechnicianName: "Mike Rodriguez"})
	if len(byName.Rows) != 1 || byName.Rows[0].Technician.ID != mike.ID {
		t.Fatalf("name filter rows = %v, want only mike", byName.Rows)
	}
}

func TestRowCardCountsAndTier(t *testing.T) {
	jane := tech("Jane Doe")

	pending := orderFor(jane, "2026-03-09", 5)
	pending.Status = "scheduled"
	done := orderFor(jane, "2026-03-10", 2)
	done.Status = "completed"
	dropped := orderFor(jane, "2026-03-10", 1)
	dropped.Status = "cancelled"

	b := Build(weekStart, []Technician{jane}, []Order{pending, done, dropped}, Filter{})

	row := findRow(t, b, jane.ID)
	if row.Days[1].TotalHours != 5 || row.Days[1].Tier != TierModerate {
		t.Fatalf("monday = %vh %s, want 5h moderate", row.Days[1].TotalHours, row.Days[1].Tier)
	}
	if row.PendingCount != 1 {
		t.Fatalf("pending = %d, want 1", row.PendingCount)
	}
	if row.CompletedCount != 1 {
		t.Fatalf("completed = %d, want 1", row.CompletedCount)
	}
	if row.WeekHours != 8 {
		t.Fatalf("week hours = %v, want 8", row.WeekHours)
	}
	// The card tier reflects the summed week, not any single day.
	if row.Tier != TierFull {
		t.Fatalf("week tier = %s, want full", row.Tier)
	}
}

func TestRowTierFromSummedWeekHours(t *testing.T) {
	jane := tech("Jane Doe")
	idle := tech("Ida Idle")

	oneJob := Build(weekStart, []Technician{jane, idle},
		[]Order{orderFor(jane, "2026-03-09", 5)}, Filter{})

	row := findRow(t, oneJob, jane.ID)
	if row.Tier != TierModerate {
		t.Fatalf("5h week tier = %s, want moderate", row.Tier)
	}
	if findRow(t, oneJob, idle.ID).Tier != TierAvailable {
		t.Fatalf("empty week must read available")
	}

	// Two light days still sum to a full week.
	split := Build(weekStart, []Technician{jane},
		[]Order{orderFor(jane, "2026-03-09", 5), orderFor(jane, "2026-03-10", 3)}, Filter{})

	row = findRow(t, split, jane.ID)
	if row.Days[1].Tier != TierModerate || row.Days[2].Tier != TierLight {
		t.Fatalf("day tiers = %s/%s, want moderate/light", row.Days[1].Tier, row.Days[2].Tier)
	}
	if row.Tier != TierFull {
		t.Fatalf("8h split week tier = %s, want full", row.Tier)
	}
}

func TestEmptyRosterStillBuildsDays(t *testing.T) {
	b := Build(weekStart, nil, nil, Filter{})

	if b.WeekStart != "2026-03-08" {
		t.Fatalf("week start = %s, want 2026-03-08", b.WeekStart)
	}
	if len(b.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(b.Rows))
	}
	for i, key := range b.DayKeys {
		if key == "" {
			t.Fatalf("day %d has empty key", i)
		}
	}
}
