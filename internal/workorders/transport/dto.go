package transport

import (
	"time"

	"github.com/google/uuid"
)

// WorkOrderStatus defines the lifecycle status of a work order.
type WorkOrderStatus string

const (
	StatusScheduled        WorkOrderStatus = "scheduled"
	StatusEnroute          WorkOrderStatus = "enroute"
	StatusOnSite           WorkOrderStatus = "on_site"
	StatusInProgress       WorkOrderStatus = "in_progress"
	StatusCompleted        WorkOrderStatus = "completed"
	StatusCancelled        WorkOrderStatus = "cancelled"
	StatusRequiresFollowup WorkOrderStatus = "requires_followup"
)

// AllStatuses lists every valid work order status.
var AllStatuses = []WorkOrderStatus{
	StatusScheduled, StatusEnroute, StatusOnSite, StatusInProgress,
	StatusCompleted, StatusCancelled, StatusRequiresFollowup,
}

// IsValid reports whether the status is a known value.
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusEnroute, StatusOnSite, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusRequiresFollowup:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the order's active lifecycle.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DisplayTheme returns the visual category for the status. The switch is
// exhaustive over the closed enum so a new status fails to compile here
// rather than falling through a string-keyed lookup at runtime.
func (s WorkOrderStatus) DisplayTheme() string {
	switch s {
	case StatusScheduled:
		return "info"
	case StatusEnroute, StatusOnSite, StatusInProgress:
		return "active"
	case StatusCompleted:
		return "success"
	case StatusCancelled:
		return "muted"
	case StatusRequiresFollowup:
		return "warning"
	default:
		return "muted"
	}
}

// Label returns the human-readable status text.
func (s WorkOrderStatus) Label() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusEnroute:
		return "En Route"
	case StatusOnSite:
		return "On Site"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	case StatusRequiresFollowup:
		return "Requires Follow-up"
	default:
		return string(s)
	}
}

// WorkOrderPriority defines the urgency of a work order.
type WorkOrderPriority string

const (
	PriorityLow       WorkOrderPriority = "low"
	PriorityNormal    WorkOrderPriority = "normal"
	PriorityHigh      WorkOrderPriority = "high"
	PriorityUrgent    WorkOrderPriority = "urgent"
	PriorityEmergency WorkOrderPriority = "emergency"
)

// AllPriorities lists every valid work order priority.
var AllPriorities = []WorkOrderPriority{
	PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent, PriorityEmergency,
}

// Label returns the human-readable priority text.
func (p WorkOrderPriority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	case PriorityEmergency:
		return "Emergency"
	default:
		return string(p)
	}
}

// IsValid reports whether the priority is a known value.
func (p WorkOrderPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

// DisplayTheme returns the visual category for the priority.
func (p WorkOrderPriority) DisplayTheme() string {
	switch p {
	case PriorityLow:
		return "muted"
	case PriorityNormal:
		return "info"
	case PriorityHigh:
		return "warning"
	case PriorityUrgent, PriorityEmergency:
		return "danger"
	default:
		return "info"
	}
}

// CreateWorkOrderRequest is the request body for creating a work order.
type CreateWorkOrderRequest struct {
	CustomerID             *uuid.UUID        `json:"customerId,omitempty"`
	JobType                string            `json:"jobType" validate:"required,min=1,max=120"`
	Priority               WorkOrderPriority `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent emergency"`
	ScheduledDate          *string           `json:"scheduledDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TimeWindowStart        *string           `json:"timeWindowStart,omitempty"`
	AssignedTechnicianID   *uuid.UUID        `json:"assignedTechnicianId,omitempty"`
	AssignedTechnician     *string           `json:"assignedTechnician,omitempty" validate:"omitempty,max=200"`
	EstimatedDurationHours *float64          `json:"estimatedDurationHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	Street                 string            `json:"street,omitempty" validate:"max=200"`
	City                   string            `json:"city,omitempty" validate:"max=100"`
	PostalCode             string            `json:"postalCode,omitempty" validate:"max=20"`
	Notes                  string            `json:"notes,omitempty" validate:"max=4000"`
}

// UpdateWorkOrderRequest is the request body for partially updating a work
// order. Version, when provided, must match the stored version or the update
// is rejected with a conflict (lost-update prevention).
type UpdateWorkOrderRequest struct {
	JobType                *string            `json:"jobType,omitempty" validate:"omitempty,min=1,max=120"`
	Status                 *WorkOrderStatus   `json:"status,omitempty" validate:"omitempty,oneof=scheduled enroute on_site in_progress completed cancelled requires_followup"`
	Priority               *WorkOrderPriority `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent emergency"`
	ScheduledDate          *string            `json:"scheduledDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TimeWindowStart        *string            `json:"timeWindowStart,omitempty"`
	AssignedTechnicianID   *uuid.UUID         `json:"assignedTechnicianId,omitempty"`
	EstimatedDurationHours *float64           `json:"estimatedDurationHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	Street                 *string            `json:"street,omitempty" validate:"omitempty,max=200"`
	City                   *string            `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode             *string            `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Notes                  *string            `json:"notes,omitempty" validate:"omitempty,max=4000"`
	Version                *int64             `json:"version,omitempty" validate:"omitempty,min=1"`
}

// AssignWorkOrderRequest is the request body for assigning a work order to a
// technician on a specific date.
type AssignWorkOrderRequest struct {
	TechnicianID uuid.UUID `json:"technicianId" validate:"required"`
	Date         string    `json:"date" validate:"required,datetime=2006-01-02"`
}

// ListWorkOrdersRequest is the query parameters for listing work orders.
type ListWorkOrdersRequest struct {
	Status       *WorkOrderStatus `form:"status" validate:"omitempty,oneof=scheduled enroute on_site in_progress completed cancelled requires_followup"`
	TechnicianID *uuid.UUID       `form:"technicianId"`
	DateFrom     string           `form:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo       string           `form:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	Page         int              `form:"page" validate:"min=0"`
	PageSize     int              `form:"pageSize" validate:"min=0,max=200"`
}

// WorkOrderResponse is the response body for a work order.
type WorkOrderResponse struct {
	ID                     uuid.UUID         `json:"id"`
	CustomerID             *uuid.UUID        `json:"customerId,omitempty"`
	JobType                string            `json:"jobType"`
	Status                 WorkOrderStatus   `json:"status"`
	StatusTheme            string            `json:"statusTheme"`
	Priority               WorkOrderPriority `json:"priority"`
	PriorityTheme          string            `json:"priorityTheme"`
	ScheduledDate          *string           `json:"scheduledDate,omitempty"`
	TimeWindowStart        *string           `json:"timeWindowStart,omitempty"`
	AssignedTechnicianID   *uuid.UUID        `json:"assignedTechnicianId,omitempty"`
	AssignedTechnician     *string           `json:"assignedTechnician,omitempty"`
	EstimatedDurationHours *float64          `json:"estimatedDurationHours,omitempty"`
	Street                 string            `json:"street,omitempty"`
	City                   string            `json:"city,omitempty"`
	PostalCode             string            `json:"postalCode,omitempty"`
	Notes                  string            `json:"notes,omitempty"`
	Version                int64             `json:"version"`
	CreatedAt              time.Time         `json:"createdAt"`
	UpdatedAt              time.Time         `json:"updatedAt"`
}

// WorkOrderListResponse is the paginated response for listing work orders.
type WorkOrderListResponse struct {
	Items      []WorkOrderResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// WorkOrderStatsResponse is the dashboard aggregate response.
type WorkOrderStatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
	Unassigned int            `json:"unassigned"`
}
