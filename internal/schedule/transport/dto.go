package transport

import (
	"fieldservice_backend/internal/schedule/quickmenu"

	"github.com/google/uuid"
)

// BoardRequest is the query parameters for fetching the weekly board.
// Date is any day inside the wanted week; empty means the current week.
// Statuses is a comma-separated status set; Technician filters rows by
// exact display name when TechnicianID is absent.
type BoardRequest struct {
	Date         string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Statuses     string `form:"statuses"`
	TechnicianID string `form:"technicianId" validate:"omitempty,uuid"`
	Technician   string `form:"technician"`
}

// CardResponse is one work order placed on the board.
type CardResponse struct {
	ID              uuid.UUID `json:"id"`
	JobType         string    `json:"jobType"`
	Status          string    `json:"status"`
	StatusTheme     string    `json:"statusTheme"`
	Priority        string    `json:"priority"`
	PriorityTheme   string    `json:"priorityTheme"`
	TimeWindowStart *string   `json:"timeWindowStart,omitempty"`
	Hours           float64   `json:"hours"`
	City            string    `json:"city,omitempty"`
}

// DayCellResponse is one droppable technician-day cell.
type DayCellResponse struct {
	Key        string         `json:"key"`
	DropTarget string         `json:"dropTarget"`
	Cards      []CardResponse `json:"cards"`
	TotalHours float64        `json:"totalHours"`
	Tier       string         `json:"tier"`
}

// RowResponse is one technician's week on the board.
type RowResponse struct {
	TechnicianID   uuid.UUID         `json:"technicianId"`
	TechnicianName string            `json:"technicianName"`
	WeekHours      float64           `json:"weekHours"`
	Tier           string            `json:"tier"`
	CompletedCount int               `json:"completedCount"`
	PendingCount   int               `json:"pendingCount"`
	Days           []DayCellResponse `json:"days"`
}

// BacklogItemResponse is an unscheduled order shown beside the board.
type BacklogItemResponse struct {
	ID            uuid.UUID `json:"id"`
	JobType       string    `json:"jobType"`
	Priority      string    `json:"priority"`
	PriorityTheme string    `json:"priorityTheme"`
	City          string    `json:"city,omitempty"`
	Hours         float64   `json:"hours"`
}

// BoardResponse is the computed weekly board.
type BoardResponse struct {
	WeekStart      string                `json:"weekStart"`
	PrevWeekStart  string                `json:"prevWeekStart"`
	NextWeekStart  string                `json:"nextWeekStart"`
	DayKeys        []string              `json:"dayKeys"`
	Rows           []RowResponse         `json:"rows"`
	Unassigned     []DayCellResponse     `json:"unassigned"`
	Backlog        []BacklogItemResponse `json:"backlog"`
	BacklogTarget  string                `json:"backlogTarget"`
	UnmatchedCount int                   `json:"unmatchedCount"`
}

// DropRequest is the request body for dropping a card onto a target.
type DropRequest struct {
	WorkOrderID uuid.UUID `json:"workOrderId" validate:"required"`
	TargetID    string    `json:"targetId" validate:"required"`
}

// QuickMenuRequest carries the anchor point and viewport dimensions used
// to place the menu. All zero means the client positions it itself.
type QuickMenuRequest struct {
	X              float64 `form:"x" validate:"omitempty,min=0"`
	Y              float64 `form:"y" validate:"omitempty,min=0"`
	ViewportWidth  float64 `form:"viewportWidth" validate:"omitempty,min=0"`
	ViewportHeight float64 `form:"viewportHeight" validate:"omitempty,min=0"`
}

// PointResponse is a computed viewport coordinate.
type PointResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OptionResponse is one selectable value in a quick menu section.
type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Theme string `json:"theme,omitempty"`
}

// TechnicianOptionResponse is a selectable technician.
type TechnicianOptionResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// QuickMenuResponse carries everything a client needs to render the quick
// actions menu for one work order.
type QuickMenuResponse struct {
	WorkOrderID uuid.UUID                  `json:"workOrderId"`
	Statuses    []OptionResponse           `json:"statuses"`
	Priorities  []OptionResponse           `json:"priorities"`
	Technicians []TechnicianOptionResponse `json:"technicians"`
	TimeSlots   []quickmenu.Slot           `json:"timeSlots"`
	// CanDelete is false while the order is scheduled; it must be
	// unscheduled before a delete will be accepted.
	CanDelete bool `json:"canDelete"`
	// Position is present when the request carried viewport dimensions.
	Position *PointResponse `json:"position,omitempty"`
}
