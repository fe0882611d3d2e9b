package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fieldservice_backend/internal/events"
	"fieldservice_backend/internal/workorders/repository"
	"fieldservice_backend/internal/workorders/transport"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]*repository.WorkOrder
	getGate chan struct{} // when set, GetByID blocks until closed
	deleted []uuid.UUID
	updates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[uuid.UUID]*repository.WorkOrder)}
}

func (f *fakeRepo) put(wo *repository.WorkOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *wo
	f.orders[wo.ID] = &cp
}

func (f *fakeRepo) Create(_ context.Context, wo *repository.WorkOrder) error {
	f.put(wo)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*repository.WorkOrder, error) {
	if f.getGate != nil {
		<-f.getGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wo, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("work order not found")
	}
	cp := *wo
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, wo *repository.WorkOrder, expectedVersion *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[wo.ID]
	if !ok {
		return apperr.NotFound("work order not found")
	}
	if expectedVersion != nil && stored.Version != *expectedVersion {
		return apperr.Conflict("work order was modified by another request")
	}
	cp := *wo
	cp.Version = stored.Version + 1
	f.orders[wo.ID] = &cp
	wo.Version = cp.Version
	f.updates++
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return apperr.NotFound("work order not found")
	}
	delete(f.orders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	return &repository.ListResult{Page: params.Page, PageSize: params.PageSize}, nil
}

func (f *fakeRepo) ListScheduledInRange(_ context.Context, _, _ time.Time) ([]repository.WorkOrder, error) {
	return nil, nil
}

func (f *fakeRepo) ListUnscheduled(_ context.Context, _ int) ([]repository.WorkOrder, error) {
	return nil, nil
}

func (f *fakeRepo) GetStats(_ context.Context) (*repository.Stats, error) {
	return &repository.Stats{ByStatus: map[string]int{}, ByPriority: map[string]int{}}, nil
}

type fakeDirectory struct {
	techs map[uuid.UUID]TechnicianRef
}

func (f *fakeDirectory) GetRef(_ context.Context, id uuid.UUID) (*TechnicianRef, error) {
	tech, ok := f.techs[id]
	if !ok {
		return nil, apperr.NotFound("technician not found")
	}
	return &tech, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(_ string, _ events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var names []string
	for _, e := range b.events {
		names = append(names, e.EventName())
	}
	return names
}

func newTestService(repo *fakeRepo, dir *fakeDirectory) (*Service, *recordingBus) {
	if dir == nil {
		dir = &fakeDirectory{techs: map[uuid.UUID]TechnicianRef{}}
	}
	bus := &recordingBus{}
	svc := New(repo, dir, bus, nil, time.Minute, logger.New("development"))
	return svc, bus
}

func scheduledOrder() *repository.WorkOrder {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	return &repository.WorkOrder{
		ID:            uuid.New(),
		JobType:       "tank pumping",
		Status:        transport.StatusScheduled,
		Priority:      transport.PriorityNormal,
		ScheduledDate: &date,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestDeleteRejectsScheduledOrder(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	repo.put(wo)
	svc, bus := newTestService(repo, nil)

	err := svc.Delete(context.Background(), wo.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("order was deleted despite being scheduled")
	}
	if len(bus.names()) != 0 {
		t.Fatalf("unexpected events published: %v", bus.names())
	}
}

func TestDeleteRemovesUnscheduledOrder(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	wo.ScheduledDate = nil
	repo.put(wo)
	svc, bus := newTestService(repo, nil)

	if err := svc.Delete(context.Background(), wo.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != wo.ID {
		t.Fatalf("order was not deleted")
	}

	names := bus.names()
	if len(names) != 1 || names[0] != "workorders.deleted" {
		t.Fatalf("expected deleted event, got %v", names)
	}
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	wo.Version = 3
	repo.put(wo)
	svc, _ := newTestService(repo, nil)

	stale := int64(2)
	notes := "updated"
	_, err := svc.Update(context.Background(), wo.ID, transport.UpdateWorkOrderRequest{
		Notes:   &notes,
		Version: &stale,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}

	current := int64(3)
	resp, err := svc.Update(context.Background(), wo.ID, transport.UpdateWorkOrderRequest{
		Notes:   &notes,
		Version: &current,
	})
	if err != nil {
		t.Fatalf("update with current version failed: %v", err)
	}
	if resp.Version != 4 {
		t.Fatalf("expected version bump to 4, got %d", resp.Version)
	}
}

func TestConcurrentMutationRejected(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	repo.put(wo)
	repo.getGate = make(chan struct{})
	svc, _ := newTestService(repo, nil)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := svc.Unschedule(context.Background(), wo.ID)
		done <- err
	}()

	<-started
	// Wait for the first mutation to claim the in-flight slot.
	deadline := time.Now().Add(time.Second)
	for {
		svc.inflight.mu.Lock()
		_, busy := svc.inflight.active[wo.ID]
		svc.inflight.mu.Unlock()
		if busy {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first mutation never claimed the in-flight slot")
		}
		time.Sleep(time.Millisecond)
	}

	notes := "late edit"
	_, err := svc.Update(context.Background(), wo.ID, transport.UpdateWorkOrderRequest{Notes: &notes})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict while mutation in flight, got %v", err)
	}

	close(repo.getGate)
	if err := <-done; err != nil {
		t.Fatalf("first mutation failed: %v", err)
	}

	// The slot is released, so the same edit now succeeds.
	if _, err := svc.Update(context.Background(), wo.ID, transport.UpdateWorkOrderRequest{Notes: &notes}); err != nil {
		t.Fatalf("update after release failed: %v", err)
	}
}

func TestAssignSetsTechnicianAndDate(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	wo.ScheduledDate = nil
	repo.put(wo)

	techID := uuid.New()
	dir := &fakeDirectory{techs: map[uuid.UUID]TechnicianRef{
		techID: {ID: techID, FullName: "Mike Rodriguez", Email: "mike@example.com", IsActive: true},
	}}
	svc, bus := newTestService(repo, dir)

	resp, err := svc.Assign(context.Background(), wo.ID, transport.AssignWorkOrderRequest{
		TechnicianID: techID,
		Date:         "2026-03-10",
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if resp.AssignedTechnicianID == nil || *resp.AssignedTechnicianID != techID {
		t.Fatalf("technician id not set")
	}
	if resp.AssignedTechnician == nil || *resp.AssignedTechnician != "Mike Rodriguez" {
		t.Fatalf("technician name not denormalized, got %v", resp.AssignedTechnician)
	}
	if resp.ScheduledDate == nil || *resp.ScheduledDate != "2026-03-10" {
		t.Fatalf("scheduled date not set, got %v", resp.ScheduledDate)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != "workorders.assigned" {
		t.Fatalf("expected assigned event, got %v", names)
	}
}

func TestAssignInactiveTechnicianRejected(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	repo.put(wo)

	techID := uuid.New()
	dir := &fakeDirectory{techs: map[uuid.UUID]TechnicianRef{
		techID: {ID: techID, FullName: "Old Timer", IsActive: false},
	}}
	svc, _ := newTestService(repo, dir)

	_, err := svc.Assign(context.Background(), wo.ID, transport.AssignWorkOrderRequest{
		TechnicianID: techID,
		Date:         "2026-03-10",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssignTerminalOrderRejected(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	wo.Status = transport.StatusCompleted
	repo.put(wo)

	techID := uuid.New()
	dir := &fakeDirectory{techs: map[uuid.UUID]TechnicianRef{
		techID: {ID: techID, FullName: "Mike Rodriguez", IsActive: true},
	}}
	svc, _ := newTestService(repo, dir)

	_, err := svc.Assign(context.Background(), wo.ID, transport.AssignWorkOrderRequest{
		TechnicianID: techID,
		Date:         "2026-03-10",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateDefaultsPriorityAndStatus(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)

	resp, err := svc.Create(context.Background(), transport.CreateWorkOrderRequest{
		JobType: "inspection",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if resp.Priority != transport.PriorityNormal {
		t.Fatalf("expected default priority normal, got %s", resp.Priority)
	}
	if resp.Status != transport.StatusScheduled {
		t.Fatalf("expected default status scheduled, got %s", resp.Status)
	}
	if resp.Version != 1 {
		t.Fatalf("expected initial version 1, got %d", resp.Version)
	}
}

func TestUnscheduleClearsDateKeepsTechnician(t *testing.T) {
	repo := newFakeRepo()
	wo := scheduledOrder()
	techID := uuid.New()
	name := "Mike Rodriguez"
	start := "09:00:00"
	wo.AssignedTechnicianID = &techID
	wo.AssignedTechnician = &name
	wo.TimeWindowStart = &start
	repo.put(wo)
	svc, bus := newTestService(repo, nil)

	resp, err := svc.Unschedule(context.Background(), wo.ID)
	if err != nil {
		t.Fatalf("unschedule failed: %v", err)
	}
	if resp.ScheduledDate != nil || resp.TimeWindowStart != nil {
		t.Fatalf("date or time window not cleared")
	}
	if resp.AssignedTechnicianID == nil {
		t.Fatalf("technician link should survive unschedule")
	}

	names := bus.names()
	if len(names) != 1 || names[0] != "workorders.unscheduled" {
		t.Fatalf("expected unscheduled event, got %v", names)
	}
}

func TestInflightTracker(t *testing.T) {
	tracker := newInflightTracker()
	id := uuid.New()

	release, err := tracker.begin(id)
	if err != nil {
		t.Fatalf("first begin failed: %v", err)
	}

	if _, err := tracker.begin(id); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second begin, got %v", err)
	}

	// A different order is unaffected.
	otherRelease, err := tracker.begin(uuid.New())
	if err != nil {
		t.Fatalf("begin on different order failed: %v", err)
	}
	otherRelease()

	release()
	release2, err := tracker.begin(id)
	if err != nil {
		t.Fatalf("begin after release failed: %v", err)
	}
	release2()
}
