package droptarget

import (
	"testing"

	"github.com/google/uuid"
)

func TestTechnicianDayRoundTrip(t *testing.T) {
	techID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	id := Format(techID, "2026-03-09")

	if id != "tech-6ba7b810-9dad-11d1-80b4-00c04fd430c8-2026-03-09" {
		t.Fatalf("unexpected id format: %s", id)
	}

	target, err := Parse(id)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if target.Kind != KindTechnicianDay {
		t.Fatalf("kind = %v, want technician day", target.Kind)
	}
	if target.TechnicianID != techID {
		t.Fatalf("technician id = %s, want %s", target.TechnicianID, techID)
	}
	if target.DateKey != "2026-03-09" {
		t.Fatalf("date key = %s, want 2026-03-09", target.DateKey)
	}
}

func TestUnassignedDayRoundTrip(t *testing.T) {
	target, err := Parse(FormatUnassigned("2026-03-12"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if target.Kind != KindUnassignedDay || target.DateKey != "2026-03-12" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestBacklog(t *testing.T) {
	target, err := Parse(FormatBacklog())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if target.Kind != KindBacklog {
		t.Fatalf("kind = %v, want backlog", target.Kind)
	}
}

func TestParseRejectsMalformedIDs(t *testing.T) {
	bad := []string{
		"",
		"tech-",
		"tech-not-a-uuid-2026-03-09",
		"tech-6ba7b810-9dad-11d1-80b4-00c04fd430c8",            // missing date
		"tech-6ba7b810-9dad-11d1-80b4-00c04fd430c8-2026-3-9",   // short date
		"tech-6ba7b810-9dad-11d1-80b4-00c04fd430c8_2026-03-09", // wrong separator
		"unassigned-March-9th",
		"van-6ba7b810-9dad-11d1-80b4-00c04fd430c8-2026-03-09",
		"backlogs",
	}
	for _, id := range bad {
		if _, err := Parse(id); err == nil {
			t.Fatalf("Parse(%q) accepted a malformed id", id)
		}
	}
}
