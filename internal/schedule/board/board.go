// Package board computes the weekly dispatch board: work orders bucketed
// into technician-by-day cells with per-day load totals.
//
// The package is pure. It knows nothing about HTTP, the database, or the
// cache; it maps an input snapshot (roster plus scheduled orders) to a
// board value, which makes the bucketing rules directly testable.
package board

import (
	"sort"
	"time"

	"fieldservice_backend/internal/schedule/week"

	"github.com/google/uuid"
)

// DefaultDurationHours is assumed for orders without an estimate.
const DefaultDurationHours = 1.0

// Load tier thresholds in hours per technician-day.
const (
	overloadedHours = 10.0
	fullHours       = 8.0
	moderateHours   = 4.0
)

// LoadTier classifies how full a technician's day is.
type LoadTier string

const (
	TierAvailable  LoadTier = "available"
	TierLight      LoadTier = "light"
	TierModerate   LoadTier = "moderate"
	TierFull       LoadTier = "full"
	TierOverloaded LoadTier = "overloaded"
)

// TierFor returns the load tier for a day's total hours.
func TierFor(hours float64) LoadTier {
	switch {
	case hours >= overloadedHours:
		return TierOverloaded
	case hours >= fullHours:
		return TierFull
	case hours >= moderateHours:
		return TierModerate
	case hours > 0:
		return TierLight
	default:
		return TierAvailable
	}
}

// Statuses that drive the per-row completed/pending counters.
const (
	statusCompleted = "completed"
	statusCancelled = "cancelled"
)

// Technician is a roster entry the board buckets onto.
type Technician struct {
	ID   uuid.UUID
	Name string
}

// Filter narrows which orders and rows the board shows. The zero value
// filters nothing.
type Filter struct {
	// Statuses keeps only orders whose status is in the set; empty keeps all.
	Statuses []string
	// TechnicianID keeps only that technician's row.
	TechnicianID *uuid.UUID
	// TechnicianName keeps only the row with that exact name; ignored when
	// TechnicianID is set.
	TechnicianName string
}

func (f Filter) allowsStatus(status string) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (f Filter) keepsRow(tech Technician) bool {
	if f.TechnicianID != nil {
		return *f.TechnicianID == tech.ID
	}
	if f.TechnicianName != "" {
		return f.TechnicianName == tech.Name
	}
	return true
}

// Order is the schedule-relevant projection of a work order.
type Order struct {
	ID              uuid.UUID
	JobType         string
	Status          string
	Priority        string
	DateKey         string
	TimeWindowStart *string
	TechnicianID    *uuid.UUID
	TechnicianName  *string
	DurationHours   *float64
	City            string
}

// Hours returns the order's duration, defaulting when no estimate exists.
func (o Order) Hours() float64 {
	if o.DurationHours == nil || *o.DurationHours <= 0 {
		return DefaultDurationHours
	}
	return *o.DurationHours
}

// timeSortKey sorts orders within a day by window start. Orders without a
// window sink below every real time of day.
func (o Order) timeSortKey() string {
	if o.TimeWindowStart == nil || *o.TimeWindowStart == "" {
		return "99:99:99"
	}
	return *o.TimeWindowStart
}

// Card is an order placed in a board cell.
type Card struct {
	Order
	Hours float64
}

// DayCell is one technician-day on the board.
type DayCell struct {
	Key        string
	Cards      []Card
	TotalHours float64
	Tier       LoadTier
}

// Row is one technician's week.
type Row struct {
	Technician Technician
	Days       [week.DaysPerWeek]DayCell
	WeekHours  float64
	// Tier classifies the summed week hours, shown on the technician card.
	Tier LoadTier
	// CompletedCount and PendingCount summarize the week's cards; pending
	// means neither completed nor cancelled.
	CompletedCount int
	PendingCount   int
}

// Board is the computed weekly view.
type Board struct {
	WeekStart string
	DayKeys   [week.DaysPerWeek]string
	Rows      []Row
	// Unassigned holds orders scheduled in the window but bound to no
	// technician at all. They render as a pseudo-row above the roster.
	Unassigned [week.DaysPerWeek]DayCell
	// Unmatched lists orders that name a technician the roster cannot
	// resolve, by id or by exact name. They are excluded from every
	// bucket rather than guessed into one.
	Unmatched []uuid.UUID
}

// UnmatchedCount returns how many orders could not be resolved to a
// technician.
func (b *Board) UnmatchedCount() int { return len(b.Unmatched) }

// Build computes the board for the week starting at weekStart (a Sunday)
// from the active roster and the scheduled orders. Orders dated outside the
// week or rejected by the filter are ignored; a technician filter drops the
// other rows after bucketing.
func Build(weekStart time.Time, roster []Technician, orders []Order, filter Filter) *Board {
	days := week.Days(weekStart)

	b := &Board{WeekStart: days[0].Key}
	dayIndex := make(map[string]int, week.DaysPerWeek)
	for i, day := range days {
		b.DayKeys[i] = day.Key
		b.Unassigned[i] = DayCell{Key: day.Key, Tier: TierAvailable}
		dayIndex[day.Key] = i
	}

	rows := make([]Row, len(roster))
	rowByID := make(map[uuid.UUID]*Row, len(roster))
	rowByName := make(map[string]*Row, len(roster))
	for i, tech := range roster {
		rows[i] = Row{Technician: tech}
		for d, day := range days {
			rows[i].Days[d] = DayCell{Key: day.Key, Tier: TierAvailable}
		}
		rowByID[tech.ID] = &rows[i]
		rowByName[tech.Name] = &rows[i]
	}

	for _, order := range orders {
		di, inWeek := dayIndex[order.DateKey]
		if !inWeek || !filter.allowsStatus(order.Status) {
			continue
		}

		card := Card{Order: order, Hours: order.Hours()}

		switch {
		case order.TechnicianID != nil:
			row, ok := rowByID[*order.TechnicianID]
			if !ok {
				b.Unmatched = append(b.Unmatched, order.ID)
				continue
			}
			placeCard(row, di, card)
		case order.TechnicianName != nil && *order.TechnicianName != "":
			// Legacy records carry only a display name. An exact roster
			// match is trusted; anything fuzzier would risk putting the
			// job on the wrong person's truck.
			row, ok := rowByName[*order.TechnicianName]
			if !ok {
				b.Unmatched = append(b.Unmatched, order.ID)
				continue
			}
			placeCard(row, di, card)
		default:
			cell := &b.Unassigned[di]
			cell.Cards = append(cell.Cards, card)
			cell.TotalHours += card.Hours
			cell.Tier = TierFor(cell.TotalHours)
		}
	}

	for i := range rows {
		for d := range rows[i].Days {
			sortCards(rows[i].Days[d].Cards)
		}
		rows[i].Tier = TierFor(rows[i].WeekHours)
	}
	for d := range b.Unassigned {
		sortCards(b.Unassigned[d].Cards)
	}

	if filter.TechnicianID != nil || filter.TechnicianName != "" {
		kept := rows[:0]
		for i := range rows {
			if filter.keepsRow(rows[i].Technician) {
				kept = append(kept, rows[i])
			}
		}
		rows = kept
	}

	// Busiest technicians first so the dispatcher sees pressure at the top.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WeekHours != rows[j].WeekHours {
			return rows[i].WeekHours > rows[j].WeekHours
		}
		return rows[i].Technician.Name < rows[j].Technician.Name
	})
	b.Rows = rows

	return b
}

func placeCard(row *Row, day int, card Card) {
	cell := &row.Days[day]
	cell.Cards = append(cell.Cards, card)
	cell.TotalHours += card.Hours
	cell.Tier = TierFor(cell.TotalHours)
	row.WeekHours += card.Hours
	switch card.Status {
	case statusCompleted:
		row.CompletedCount++
	case statusCancelled:
	default:
		row.PendingCount++
	}
}

// sortCards orders a cell by time window start, earliest first, with
// unwindowed orders last. Ties fall back to id for a stable render.
func sortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		ki, kj := cards[i].timeSortKey(), cards[j].timeSortKey()
		if ki != kj {
			return ki < kj
		}
		return cards[i].ID.String() < cards[j].ID.String()
	})
}
