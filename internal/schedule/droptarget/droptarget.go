// Package droptarget encodes and decodes board drop-zone identifiers.
//
// Every droppable cell on the board carries a stable string id. The
// technician-day format is "tech-{technicianID}-{dateKey}"; the id embeds
// hyphens in both the UUID and the date, so parsing anchors on the fixed
// date-key width at the tail rather than splitting on "-".
package droptarget

import (
	"fmt"
	"strings"

	"fieldservice_backend/internal/schedule/week"

	"github.com/google/uuid"
)

// Kind discriminates the drop-zone families on the board.
type Kind int

const (
	// KindTechnicianDay is a technician's cell on a given day.
	KindTechnicianDay Kind = iota
	// KindUnassignedDay is the unassigned pseudo-row on a given day.
	KindUnassignedDay
	// KindBacklog is the off-board backlog panel; dropping there
	// unschedules the order.
	KindBacklog
)

const (
	techPrefix       = "tech-"
	unassignedPrefix = "unassigned-"
	backlogID        = "backlog"

	dateKeyLen = len(week.DayKeyFormat)
)

// Target is a decoded drop zone.
type Target struct {
	Kind         Kind
	TechnicianID uuid.UUID
	DateKey      string
}

// Format returns the id for a technician-day cell.
func Format(technicianID uuid.UUID, dateKey string) string {
	return techPrefix + technicianID.String() + "-" + dateKey
}

// FormatUnassigned returns the id for an unassigned-row cell.
func FormatUnassigned(dateKey string) string {
	return unassignedPrefix + dateKey
}

// FormatBacklog returns the id of the backlog drop zone.
func FormatBacklog() string {
	return backlogID
}

// Parse decodes a drop-zone id.
func Parse(id string) (Target, error) {
	switch {
	case id == backlogID:
		return Target{Kind: KindBacklog}, nil

	case strings.HasPrefix(id, unassignedPrefix):
		dateKey := id[len(unassignedPrefix):]
		if _, err := week.ParseDateKey(dateKey); err != nil {
			return Target{}, fmt.Errorf("invalid drop target %q: %w", id, err)
		}
		return Target{Kind: KindUnassignedDay, DateKey: dateKey}, nil

	case strings.HasPrefix(id, techPrefix):
		rest := id[len(techPrefix):]
		// The date key is fixed width at the tail: "{uuid}-{yyyy-mm-dd}".
		if len(rest) < dateKeyLen+2 || rest[len(rest)-dateKeyLen-1] != '-' {
			return Target{}, fmt.Errorf("invalid drop target %q", id)
		}
		idPart := rest[:len(rest)-dateKeyLen-1]
		dateKey := rest[len(rest)-dateKeyLen:]

		technicianID, err := uuid.Parse(idPart)
		if err != nil {
			return Target{}, fmt.Errorf("invalid drop target %q: %w", id, err)
		}
		if _, err := week.ParseDateKey(dateKey); err != nil {
			return Target{}, fmt.Errorf("invalid drop target %q: %w", id, err)
		}
		return Target{Kind: KindTechnicianDay, TechnicianID: technicianID, DateKey: dateKey}, nil

	default:
		return Target{}, fmt.Errorf("invalid drop target %q", id)
	}
}
