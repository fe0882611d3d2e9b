// Package quickmenu models the per-card quick actions menu on the board:
// which section is expanded, the delete confirmation step, where the popup
// lands relative to the viewport, and the selectable time slots.
//
// The rules live here as pure functions so the interaction contract is
// testable without a browser. The HTTP layer serves the computed affordances
// to whatever client renders them.
package quickmenu

import "fmt"

// Section identifies one expandable group of quick actions.
type Section string

const (
	SectionStatus     Section = "status"
	SectionPriority   Section = "priority"
	SectionTechnician Section = "technician"
	SectionTime       Section = "time"
)

// State is the menu's interaction state. The zero value is a closed menu.
type State struct {
	open             bool
	active           Section
	confirmingDelete bool
}

// Open opens the menu with no section expanded.
func (s *State) Open() {
	s.open = true
	s.active = ""
	s.confirmingDelete = false
}

// Close collapses everything.
func (s *State) Close() {
	*s = State{}
}

// IsOpen reports whether the menu is showing.
func (s *State) IsOpen() bool { return s.open }

// ActiveSection returns the expanded section, or "" when none is.
func (s *State) ActiveSection() Section { return s.active }

// ToggleSection expands the section, collapsing whichever was expanded
// before; at most one section is ever open. Toggling the expanded section
// collapses it. Entering a section cancels a pending delete confirmation.
func (s *State) ToggleSection(section Section) {
	if !s.open {
		return
	}
	s.confirmingDelete = false
	if s.active == section {
		s.active = ""
		return
	}
	s.active = section
}

// RequestDelete arms the delete confirmation. The destructive action never
// fires from the first click.
func (s *State) RequestDelete() {
	if !s.open {
		return
	}
	s.active = ""
	s.confirmingDelete = true
}

// IsConfirmingDelete reports whether the confirm step is showing.
func (s *State) IsConfirmingDelete() bool { return s.confirmingDelete }

// CancelDelete disarms the confirmation and keeps the menu open.
func (s *State) CancelDelete() {
	s.confirmingDelete = false
}

// ConfirmDelete reports whether the delete may proceed, and closes the
// menu. It returns false when the confirmation was never armed.
func (s *State) ConfirmDelete() bool {
	armed := s.open && s.confirmingDelete
	s.Close()
	return armed
}

// ViewportPadding is the minimum gap kept between the menu and any
// viewport edge.
const ViewportPadding = 8.0

// MenuWidthEstimate and MenuHeightEstimate approximate the rendered menu
// box. Positioning happens before the menu exists, so a fixed estimate
// stands in for measured dimensions.
const (
	MenuWidthEstimate  = 224.0
	MenuHeightEstimate = 320.0
)

// MenuSize returns the estimated menu box.
func MenuSize() Size {
	return Size{Width: MenuWidthEstimate, Height: MenuHeightEstimate}
}

// Point is a viewport coordinate, origin top-left.
type Point struct {
	X float64
	Y float64
}

// Size is a box's dimensions.
type Size struct {
	Width  float64
	Height float64
}

// Position places the menu relative to its anchor point. The menu prefers
// opening right and down from the anchor; when that would overflow the
// viewport it flips left or up, then clamps so it never renders closer than
// ViewportPadding to an edge.
func Position(anchor Point, menu Size, viewport Size) Point {
	pos := Point{X: anchor.X, Y: anchor.Y}

	if pos.X+menu.Width > viewport.Width-ViewportPadding {
		pos.X = anchor.X - menu.Width
	}
	if pos.Y+menu.Height > viewport.Height-ViewportPadding {
		pos.Y = anchor.Y - menu.Height
	}

	pos.X = clamp(pos.X, ViewportPadding, viewport.Width-menu.Width-ViewportPadding)
	pos.Y = clamp(pos.Y, ViewportPadding, viewport.Height-menu.Height-ViewportPadding)

	return pos
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Menu larger than the padded viewport; pin to the near edge.
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Slot is a selectable appointment start time.
type Slot struct {
	// Value is the wire format stored on the work order.
	Value string `json:"value"`
	// Label is the 12-hour display text.
	Label string `json:"label"`
}

// DefaultWorkDayStart and DefaultWorkDayEnd bound the default slot range.
const (
	DefaultWorkDayStart = 7
	DefaultWorkDayEnd   = 19
)

// TimeSlots returns one slot per hour from startHour up to and including
// endHour. Hours outside 0..23 are clamped; an inverted range yields nil.
func TimeSlots(startHour, endHour int) []Slot {
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}
	if endHour < startHour {
		return nil
	}

	slots := make([]Slot, 0, endHour-startHour+1)
	for h := startHour; h <= endHour; h++ {
		slots = append(slots, Slot{
			Value: fmt.Sprintf("%02d:00:00", h),
			Label: hourLabel(h),
		})
	}
	return slots
}

func hourLabel(h int) string {
	period := "AM"
	display := h
	switch {
	case h == 0:
		display = 12
	case h == 12:
		period = "PM"
	case h > 12:
		display = h - 12
		period = "PM"
	}
	return fmt.Sprintf("%d:00 %s", display, period)
}
