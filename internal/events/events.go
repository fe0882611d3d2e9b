// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"fieldservice_backend/platform/events"
	"fieldservice_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Work Order Domain Events
// =============================================================================

// WorkOrderCreated is published when a new work order is created.
type WorkOrderCreated struct {
	BaseEvent
	WorkOrderID uuid.UUID `json:"workOrderId"`
	JobType     string    `json:"jobType"`
	Priority    string    `json:"priority"`
}

func (e WorkOrderCreated) EventName() string { return "workorders.created" }

// WorkOrderUpdated is published when work order fields change via partial update.
type WorkOrderUpdated struct {
	BaseEvent
	WorkOrderID   uuid.UUID `json:"workOrderId"`
	ChangedFields []string  `json:"changedFields"`
}

func (e WorkOrderUpdated) EventName() string { return "workorders.updated" }

// WorkOrderAssigned is published when a work order is assigned to a technician.
type WorkOrderAssigned struct {
	BaseEvent
	WorkOrderID     uuid.UUID  `json:"workOrderId"`
	TechnicianID    uuid.UUID  `json:"technicianId"`
	TechnicianName  string     `json:"technicianName"`
	TechnicianEmail string     `json:"technicianEmail,omitempty"`
	PreviousTechID  *uuid.UUID `json:"previousTechnicianId,omitempty"`
	ScheduledDate   string     `json:"scheduledDate"`
	JobType         string     `json:"jobType"`
	TimeWindowStart *string    `json:"timeWindowStart,omitempty"`
	City            string     `json:"city,omitempty"`
}

func (e WorkOrderAssigned) EventName() string { return "workorders.assigned" }

// WorkOrderUnassigned is published when a work order's assignment is cleared.
type WorkOrderUnassigned struct {
	BaseEvent
	WorkOrderID    uuid.UUID  `json:"workOrderId"`
	PreviousTechID *uuid.UUID `json:"previousTechnicianId,omitempty"`
}

func (e WorkOrderUnassigned) EventName() string { return "workorders.unassigned" }

// WorkOrderUnscheduled is published when a work order's date and time window
// are cleared.
type WorkOrderUnscheduled struct {
	BaseEvent
	WorkOrderID uuid.UUID `json:"workOrderId"`
}

func (e WorkOrderUnscheduled) EventName() string { return "workorders.unscheduled" }

// WorkOrderDeleted is published when an unscheduled work order is hard-deleted.
type WorkOrderDeleted struct {
	BaseEvent
	WorkOrderID uuid.UUID `json:"workOrderId"`
}

func (e WorkOrderDeleted) EventName() string { return "workorders.deleted" }

// WorkOrderReminderDue is published by the job worker when an appointment
// reminder falls due and the order is still scheduled.
type WorkOrderReminderDue struct {
	BaseEvent
	WorkOrderID     uuid.UUID `json:"workOrderId"`
	TechnicianName  string    `json:"technicianName"`
	TechnicianEmail string    `json:"technicianEmail"`
	JobType         string    `json:"jobType"`
	ScheduledDate   string    `json:"scheduledDate"`
	TimeWindowStart *string   `json:"timeWindowStart,omitempty"`
	City            string    `json:"city,omitempty"`
}

func (e WorkOrderReminderDue) EventName() string { return "workorders.reminder_due" }

// =============================================================================
// Technician Domain Events
// =============================================================================

// TechnicianChanged is published when technician registry data changes
// (create, update, activation toggle). Board buckets key on technicians,
// so any change invalidates the schedule views.
type TechnicianChanged struct {
	BaseEvent
	TechnicianID uuid.UUID `json:"technicianId"`
}

func (e TechnicianChanged) EventName() string { return "technicians.changed" }
