package quickmenu

import "testing"

func TestSingleActiveSection(t *testing.T) {
	var s State
	s.Open()

	s.ToggleSection(SectionStatus)
	if s.ActiveSection() != SectionStatus {
		t.Fatalf("active = %s, want status", s.ActiveSection())
	}

	// Opening another section closes the first.
	s.ToggleSection(SectionTime)
	if s.ActiveSection() != SectionTime {
		t.Fatalf("active = %s, want time", s.ActiveSection())
	}

	// Toggling the open section collapses it.
	s.ToggleSection(SectionTime)
	if s.ActiveSection() != "" {
		t.Fatalf("active = %s, want none", s.ActiveSection())
	}
}

func TestClosedMenuIgnoresInput(t *testing.T) {
	var s State

	s.ToggleSection(SectionStatus)
	s.RequestDelete()

	if s.IsOpen() || s.ActiveSection() != "" || s.IsConfirmingDelete() {
		t.Fatalf("closed menu changed state: %+v", s)
	}
	if s.ConfirmDelete() {
		t.Fatal("delete confirmed without ever being armed")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	var s State
	s.Open()
	s.ToggleSection(SectionPriority)

	s.RequestDelete()
	if !s.IsConfirmingDelete() {
		t.Fatal("confirmation not armed")
	}
	if s.ActiveSection() != "" {
		t.Fatal("arming delete must collapse the open section")
	}

	s.CancelDelete()
	if s.IsConfirmingDelete() {
		t.Fatal("cancel did not disarm")
	}
	if !s.IsOpen() {
		t.Fatal("cancel must keep the menu open")
	}
	if s.ConfirmDelete() {
		t.Fatal("delete confirmed after cancel")
	}

	s.Open()
	s.RequestDelete()
	if !s.ConfirmDelete() {
		t.Fatal("armed confirmation did not fire")
	}
	if s.IsOpen() {
		t.Fatal("menu must close after confirm")
	}
}

func TestOpeningSectionDisarmsDelete(t *testing.T) {
	var s State
	s.Open()
	s.RequestDelete()

	s.ToggleSection(SectionTechnician)
	if s.IsConfirmingDelete() {
		t.Fatal("expanding a section must cancel the pending delete")
	}
}

func TestPositionFitsDefaultPlacement(t *testing.T) {
	vp := Size{Width: 1280, Height: 800}
	pos := Position(Point{X: 100, Y: 100}, Size{Width: 220, Height: 300}, vp)

	if pos.X != 100 || pos.Y != 100 {
		t.Fatalf("pos = %+v, want anchor position", pos)
	}
}

func TestPositionFlipsLeftNearRightEdge(t *testing.T) {
	vp := Size{Width: 1280, Height: 800}
	menu := Size{Width: 220, Height: 300}

	// Anchor within padding distance of the right edge.
	anchor := Point{X: vp.Width - 5, Y: 100}
	pos := Position(anchor, menu, vp)

	if pos.X+menu.Width > vp.Width {
		t.Fatalf("menu overflows right edge: left %v + width %v > %v", pos.X, menu.Width, vp.Width)
	}
	if pos.X > anchor.X-menu.Width {
		t.Fatalf("menu did not flip left of the anchor: left = %v", pos.X)
	}
}

func TestPositionFlipsUpNearBottomEdge(t *testing.T) {
	vp := Size{Width: 1280, Height: 800}
	menu := Size{Width: 220, Height: 300}

	pos := Position(Point{X: 100, Y: 790}, menu, vp)
	if pos.Y+menu.Height > vp.Height {
		t.Fatalf("menu overflows bottom edge: top %v", pos.Y)
	}
}

func TestPositionClampsToPadding(t *testing.T) {
	vp := Size{Width: 1280, Height: 800}
	menu := Size{Width: 220, Height: 300}

	// Anchor nearly at the origin; flipping up/left would go negative.
	pos := Position(Point{X: 2, Y: 2}, menu, vp)
	if pos.X < ViewportPadding || pos.Y < ViewportPadding {
		t.Fatalf("menu crosses the padded edge: %+v", pos)
	}

	// And never closer than the padding on the far edges either.
	pos = Position(Point{X: vp.Width - 1, Y: vp.Height - 1}, menu, vp)
	if pos.X+menu.Width > vp.Width-ViewportPadding || pos.Y+menu.Height > vp.Height-ViewportPadding {
		t.Fatalf("menu crosses the far padded edge: %+v", pos)
	}
}

func TestTimeSlotsDefaultWorkDay(t *testing.T) {
	slots := TimeSlots(DefaultWorkDayStart, DefaultWorkDayEnd)

	if len(slots) != 13 { // 7 AM through 7 PM inclusive
		t.Fatalf("slots = %d, want 13", len(slots))
	}
	if slots[0].Value != "07:00:00" || slots[0].Label != "7:00 AM" {
		t.Fatalf("first slot = %+v", slots[0])
	}
	if slots[5].Value != "12:00:00" || slots[5].Label != "12:00 PM" {
		t.Fatalf("noon slot = %+v", slots[5])
	}
	if slots[6].Label != "1:00 PM" {
		t.Fatalf("1 PM label = %s", slots[6].Label)
	}
	last := slots[len(slots)-1]
	if last.Value != "19:00:00" || last.Label != "7:00 PM" {
		t.Fatalf("last slot = %+v", last)
	}
}

func TestTimeSlotsEdgeHours(t *testing.T) {
	slots := TimeSlots(0, 0)
	if len(slots) != 1 || slots[0].Label != "12:00 AM" || slots[0].Value != "00:00:00" {
		t.Fatalf("midnight slot = %+v", slots)
	}

	if TimeSlots(10, 9) != nil {
		t.Fatal("inverted range must yield no slots")
	}

	slots = TimeSlots(-3, 30)
	if slots[0].Value != "00:00:00" || slots[len(slots)-1].Value != "23:00:00" {
		t.Fatalf("out-of-range hours not clamped: %+v", slots)
	}
}
