package cache

import (
	"context"

	"fieldservice_backend/internal/events"

	"github.com/google/uuid"
)

// Group identifies a family of cached query results. Groups are key
// prefixes; invalidating a group drops every key under its prefix.
type Group string

const (
	// GroupWorkOrderList covers paginated work-order listings.
	GroupWorkOrderList Group = "workorders:list:"
	// GroupWorkOrderDetail covers single work-order reads.
	GroupWorkOrderDetail Group = "workorders:detail:"
	// GroupScheduleBoard covers computed weekly board views.
	GroupScheduleBoard Group = "schedule:board:"
	// GroupDashboardStats covers aggregate dashboard counters.
	GroupDashboardStats Group = "dashboard:stats"
)

// Prefix returns the Redis key prefix for this group.
func (g Group) Prefix() string { return string(g) }

// Key returns a concrete cache key within the group.
func (g Group) Key(suffix string) string { return string(g) + suffix }

// dependencies is the static entity-to-groups invalidation graph. Every
// mutation path invalidates through this table rather than listing keys ad
// hoc at call sites, so a new dependent view only needs one edge here.
var dependencies = map[string][]Group{
	"workorder":  {GroupWorkOrderList, GroupWorkOrderDetail, GroupScheduleBoard, GroupDashboardStats},
	"technician": {GroupScheduleBoard, GroupDashboardStats},
}

// GroupsFor returns the cache groups that depend on the given entity kind.
func GroupsFor(entity string) []Group {
	return dependencies[entity]
}

// Invalidator listens to domain events and drops the dependent cache groups.
type Invalidator struct {
	store *Store
}

// NewInvalidator creates an invalidator over the given store.
func NewInvalidator(store *Store) *Invalidator {
	return &Invalidator{store: store}
}

// RegisterHandlers subscribes the invalidator to every mutating domain event.
func (inv *Invalidator) RegisterHandlers(bus events.Bus) {
	workOrderEvents := []string{
		events.WorkOrderCreated{}.EventName(),
		events.WorkOrderUpdated{}.EventName(),
		events.WorkOrderAssigned{}.EventName(),
		events.WorkOrderUnassigned{}.EventName(),
		events.WorkOrderUnscheduled{}.EventName(),
		events.WorkOrderDeleted{}.EventName(),
	}
	for _, name := range workOrderEvents {
		bus.Subscribe(name, events.HandlerFunc(inv.handleWorkOrderEvent))
	}

	bus.Subscribe(events.TechnicianChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, _ events.Event) error {
		inv.InvalidateEntity(ctx, "technician")
		return nil
	}))
}

func (inv *Invalidator) handleWorkOrderEvent(ctx context.Context, event events.Event) error {
	inv.InvalidateEntity(ctx, "workorder")
	if id, ok := workOrderID(event); ok {
		inv.store.Delete(ctx, GroupWorkOrderDetail.Key(id.String()))
	}
	return nil
}

// InvalidateEntity drops all cache groups that depend on the entity kind.
func (inv *Invalidator) InvalidateEntity(ctx context.Context, entity string) {
	for _, group := range GroupsFor(entity) {
		if group == GroupDashboardStats {
			inv.store.Delete(ctx, string(group))
			continue
		}
		inv.store.DeletePrefix(ctx, group.Prefix())
	}
}

func workOrderID(event events.Event) (uuid.UUID, bool) {
	switch e := event.(type) {
	case events.WorkOrderCreated:
		return e.WorkOrderID, true
	case events.WorkOrderUpdated:
		return e.WorkOrderID, true
	case events.WorkOrderAssigned:
		return e.WorkOrderID, true
	case events.WorkOrderUnassigned:
		return e.WorkOrderID, true
	case events.WorkOrderUnscheduled:
		return e.WorkOrderID, true
	case events.WorkOrderDeleted:
		return e.WorkOrderID, true
	default:
		return uuid.UUID{}, false
	}
}
