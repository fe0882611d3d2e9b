package service

import (
	"context"
	"testing"
	"time"

	"fieldservice_backend/internal/cache"
	"fieldservice_backend/internal/schedule/board"
	"fieldservice_backend/internal/schedule/droptarget"
	"fieldservice_backend/internal/schedule/quickmenu"
	"fieldservice_backend/internal/schedule/transport"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeOrders struct {
	scheduled    []board.Order
	backlog      []board.Order
	summaries    map[uuid.UUID]OrderSummary
	windowCalls  int
	backlogCalls int
}

func (f *fakeOrders) ScheduledInWindow(_ context.Context, _, _ time.Time) ([]board.Order, error) {
	f.windowCalls++
	return f.scheduled, nil
}

func (f *fakeOrders) Backlog(_ context.Context, _ int) ([]board.Order, error) {
	f.backlogCalls++
	return f.backlog, nil
}

func (f *fakeOrders) Summary(_ context.Context, id uuid.UUID) (*OrderSummary, error) {
	s, ok := f.summaries[id]
	if !ok {
		return nil, apperr.NotFound("work order not found")
	}
	return &s, nil
}

type fakeTechs struct {
	roster []board.Technician
}

func (f *fakeTechs) ActiveRoster(_ context.Context) ([]board.Technician, error) {
	return f.roster, nil
}

type fakeAssigner struct {
	assigned    []string // "orderID->techID@date"
	unassigned  []string // "orderID@date"
	unscheduled []uuid.UUID
}

func (f *fakeAssigner) Assign(_ context.Context, orderID, technicianID uuid.UUID, dateKey string) error {
	f.assigned = append(f.assigned, orderID.String()+"->"+technicianID.String()+"@"+dateKey)
	return nil
}

func (f *fakeAssigner) ScheduleUnassigned(_ context.Context, orderID uuid.UUID, dateKey string) error {
	f.unassigned = append(f.unassigned, orderID.String()+"@"+dateKey)
	return nil
}

func (f *fakeAssigner) Unschedule(_ context.Context, orderID uuid.UUID) error {
	f.unscheduled = append(f.unscheduled, orderID)
	return nil
}

func testConfig() Config {
	return Config{
		CacheTTL:     time.Minute,
		WorkDayStart: 7,
		WorkDayEnd:   19,
		BacklogLimit: 50,
	}
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewStore(client, logger.New("development"))
}

func TestDropDispatchesByTargetKind(t *testing.T) {
	assigner := &fakeAssigner{}
	svc := New(&fakeOrders{}, &fakeTechs{}, assigner, nil, testConfig(), logger.New("development"))

	orderID := uuid.New()
	techID := uuid.New()

	if err := svc.Drop(context.Background(), transport.DropRequest{
		WorkOrderID: orderID,
		TargetID:    droptarget.Format(techID, "2026-03-09"),
	}); err != nil {
		t.Fatalf("technician drop failed: %v", err)
	}
	if len(assigner.assigned) != 1 {
		t.Fatalf("assign not called")
	}

	if err := svc.Drop(context.Background(), transport.DropRequest{
		WorkOrderID: orderID,
		TargetID:    droptarget.FormatUnassigned("2026-03-10"),
	}); err != nil {
		t.Fatalf("unassigned drop failed: %v", err)
	}
	if len(assigner.unassigned) != 1 {
		t.Fatalf("schedule-unassigned not called")
	}

	if err := svc.Drop(context.Background(), transport.DropRequest{
		WorkOrderID: orderID,
		TargetID:    droptarget.FormatBacklog(),
	}); err != nil {
		t.Fatalf("backlog drop failed: %v", err)
	}
	if len(assigner.unscheduled) != 1 {
		t.Fatalf("unschedule not called")
	}
}

func TestDropRejectsMalformedTarget(t *testing.T) {
	svc := New(&fakeOrders{}, &fakeTechs{}, &fakeAssigner{}, nil, testConfig(), logger.New("development"))

	err := svc.Drop(context.Background(), transport.DropRequest{
		WorkOrderID: uuid.New(),
		TargetID:    "nonsense",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBoardComputesAndCaches(t *testing.T) {
	tech := board.Technician{ID: uuid.New(), Name: "Mike Rodriguez"}
	ghost := uuid.New()
	orders := &fakeOrders{
		scheduled: []board.Order{
			{ID: uuid.New(), JobType: "tank pumping", Status: "scheduled", Priority: "normal",
				DateKey: "2026-03-09", TechnicianID: &tech.ID},
			{ID: uuid.New(), JobType: "inspection", Status: "scheduled", Priority: "high",
				DateKey: "2026-03-10", TechnicianID: &ghost},
		},
		backlog: []board.Order{
			{ID: uuid.New(), JobType: "repair", Priority: "urgent"},
		},
	}
	svc := New(orders, &fakeTechs{roster: []board.Technician{tech}}, &fakeAssigner{},
		newTestStore(t), testConfig(), logger.New("development"))

	resp, err := svc.GetBoard(context.Background(), transport.BoardRequest{Date: "2026-03-11"})
	if err != nil {
		t.Fatalf("board fetch failed: %v", err)
	}

	if resp.WeekStart != "2026-03-08" {
		t.Fatalf("week start = %s, want 2026-03-08", resp.WeekStart)
	}
	if resp.PrevWeekStart != "2026-03-01" || resp.NextWeekStart != "2026-03-15" {
		t.Fatalf("week navigation = %s / %s", resp.PrevWeekStart, resp.NextWeekStart)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(resp.Rows))
	}
	if got := len(resp.Rows[0].Days[1].Cards); got != 1 {
		t.Fatalf("monday cards = %d, want 1", got)
	}
	if resp.Rows[0].Tier != string(board.TierLight) {
		t.Fatalf("row tier = %q, want light", resp.Rows[0].Tier)
	}
	if resp.UnmatchedCount != 1 {
		t.Fatalf("unmatched = %d, want 1", resp.UnmatchedCount)
	}
	if len(resp.Backlog) != 1 || resp.Backlog[0].Hours != board.DefaultDurationHours {
		t.Fatalf("backlog = %+v", resp.Backlog)
	}
	if resp.Rows[0].Days[0].DropTarget == "" || resp.BacklogTarget == "" {
		t.Fatal("drop target ids missing")
	}

	// Second fetch of the same week is served from cache.
	again, err := svc.GetBoard(context.Background(), transport.BoardRequest{Date: "2026-03-14"})
	if err != nil {
		t.Fatalf("cached board fetch failed: %v", err)
	}
	if orders.windowCalls != 1 {
		t.Fatalf("window queried %d times, want 1 (cache miss only)", orders.windowCalls)
	}
	if again.WeekStart != resp.WeekStart {
		t.Fatalf("cached week start = %s", again.WeekStart)
	}
}

func TestGetBoardRejectsBadDate(t *testing.T) {
	svc := New(&fakeOrders{}, &fakeTechs{}, &fakeAssigner{}, nil, testConfig(), logger.New("development"))

	_, err := svc.GetBoard(context.Background(), transport.BoardRequest{Date: "03/11/2026"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuickMenuAffordances(t *testing.T) {
	scheduledID := uuid.New()
	backlogID := uuid.New()
	orders := &fakeOrders{summaries: map[uuid.UUID]OrderSummary{
		scheduledID: {ID: scheduledID, Scheduled: true},
		backlogID:   {ID: backlogID, Scheduled: false},
	}}
	techs := &fakeTechs{roster: []board.Technician{
		{ID: uuid.New(), Name: "Mike Rodriguez"},
		{ID: uuid.New(), Name: "Sarah Chen"},
	}}
	svc := New(orders, techs, &fakeAssigner{}, nil, testConfig(), logger.New("development"))

	menu, err := svc.QuickMenu(context.Background(), scheduledID, transport.QuickMenuRequest{})
	if err != nil {
		t.Fatalf("quick menu failed: %v", err)
	}
	if menu.CanDelete {
		t.Fatal("scheduled order must not offer delete")
	}
	if menu.Position != nil {
		t.Fatal("position must be omitted without viewport dimensions")
	}
	if len(menu.Statuses) != 7 {
		t.Fatalf("statuses = %d, want 7", len(menu.Statuses))
	}
	if len(menu.Priorities) != 5 {
		t.Fatalf("priorities = %d, want 5", len(menu.Priorities))
	}
	if len(menu.Technicians) != 2 {
		t.Fatalf("technicians = %d, want 2", len(menu.Technicians))
	}
	if len(menu.TimeSlots) != 13 {
		t.Fatalf("time slots = %d, want 13", len(menu.TimeSlots))
	}
	if menu.TimeSlots[0].Value != "07:00:00" {
		t.Fatalf("first slot = %+v", menu.TimeSlots[0])
	}

	menu, err = svc.QuickMenu(context.Background(), backlogID, transport.QuickMenuRequest{})
	if err != nil {
		t.Fatalf("quick menu failed: %v", err)
	}
	if !menu.CanDelete {
		t.Fatal("unscheduled order must offer delete")
	}

	if _, err := svc.QuickMenu(context.Background(), uuid.New(), transport.QuickMenuRequest{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuickMenuPositionClampedToViewport(t *testing.T) {
	orderID := uuid.New()
	orders := &fakeOrders{summaries: map[uuid.UUID]OrderSummary{
		orderID: {ID: orderID, Scheduled: false},
	}}
	svc := New(orders, &fakeTechs{}, &fakeAssigner{}, nil, testConfig(), logger.New("development"))

	// Anchor hugging the bottom-right corner: the menu flips and clamps.
	menu, err := svc.QuickMenu(context.Background(), orderID, transport.QuickMenuRequest{
		X: 1270, Y: 790, ViewportWidth: 1280, ViewportHeight: 800,
	})
	if err != nil {
		t.Fatalf("quick menu failed: %v", err)
	}
	if menu.Position == nil {
		t.Fatal("position missing")
	}
	if menu.Position.X+quickmenu.MenuWidthEstimate > 1280-quickmenu.ViewportPadding {
		t.Fatalf("menu overflows right edge: x=%v", menu.Position.X)
	}
	if menu.Position.Y+quickmenu.MenuHeightEstimate > 800-quickmenu.ViewportPadding {
		t.Fatalf("menu overflows bottom edge: y=%v", menu.Position.Y)
	}
}

func TestGetBoardAppliesFilters(t *testing.T) {
	mike := board.Technician{ID: uuid.New(), Name: "Mike Rodriguez"}
	sarah := board.Technician{ID: uuid.New(), Name: "Sarah Chen"}
	orders := &fakeOrders{
		scheduled: []board.Order{
			{ID: uuid.New(), Status: "scheduled", DateKey: "2026-03-09", TechnicianID: &mike.ID},
			{ID: uuid.New(), Status: "completed", DateKey: "2026-03-09", TechnicianID: &mike.ID},
			{ID: uuid.New(), Status: "scheduled", DateKey: "2026-03-10", TechnicianID: &sarah.ID},
		},
	}
	svc := New(orders, &fakeTechs{roster: []board.Technician{mike, sarah}}, &fakeAssigner{},
		newTestStore(t), testConfig(), logger.New("development"))

	resp, err := svc.GetBoard(context.Background(), transport.BoardRequest{
		Date:         "2026-03-11",
		Statuses:     "scheduled",
		TechnicianID: mike.ID.String(),
	})
	if err != nil {
		t.Fatalf("board fetch failed: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].TechnicianID != mike.ID {
		t.Fatalf("rows = %+v, want only mike", resp.Rows)
	}
	if got := len(resp.Rows[0].Days[1].Cards); got != 1 {
		t.Fatalf("monday cards = %d, want 1 (completed filtered out)", got)
	}

	// A different filter combination must not reuse the cached entry.
	all, err := svc.GetBoard(context.Background(), transport.BoardRequest{Date: "2026-03-11"})
	if err != nil {
		t.Fatalf("unfiltered fetch failed: %v", err)
	}
	if orders.windowCalls != 2 {
		t.Fatalf("window queried %d times, want 2 (distinct cache keys)", orders.windowCalls)
	}
	if len(all.Rows) != 2 {
		t.Fatalf("unfiltered rows = %d, want 2", len(all.Rows))
	}

	if _, err := svc.GetBoard(context.Background(), transport.BoardRequest{
		Date: "2026-03-11", Statuses: "bogus",
	}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
