// Package adapters bridges the domain modules without letting their services
// import each other. Each adapter implements a consumer-side interface over
// another module's service, keeping the dependency arrows pointing at this
// package instead of across domains.
package adapters

import (
	"context"
	"time"

	"fieldservice_backend/internal/schedule/board"
	scheduleservice "fieldservice_backend/internal/schedule/service"
	"fieldservice_backend/internal/schedule/week"
	techservice "fieldservice_backend/internal/technicians/service"
	woservice "fieldservice_backend/internal/workorders/service"
	wotransport "fieldservice_backend/internal/workorders/transport"

	"github.com/google/uuid"
)

// TechnicianDirectoryAdapter exposes the technician registry to the work
// orders module.
type TechnicianDirectoryAdapter struct {
	techs *techservice.Service
}

// NewTechnicianDirectory creates a directory adapter over the technicians
// service.
func NewTechnicianDirectory(techs *techservice.Service) *TechnicianDirectoryAdapter {
	return &TechnicianDirectoryAdapter{techs: techs}
}

// GetRef resolves a technician reference by id.
func (a *TechnicianDirectoryAdapter) GetRef(ctx context.Context, id uuid.UUID) (*woservice.TechnicianRef, error) {
	tech, err := a.techs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &woservice.TechnicianRef{
		ID:       tech.ID,
		FullName: tech.FullName,
		Email:    tech.Email,
		IsActive: tech.IsActive,
	}, nil
}

var _ woservice.TechnicianDirectory = (*TechnicianDirectoryAdapter)(nil)

// WorkOrderSourceAdapter feeds the schedule board from the work orders
// module.
type WorkOrderSourceAdapter struct {
	orders *woservice.Service
}

// NewWorkOrderSource creates a board data source over the work orders
// service.
func NewWorkOrderSource(orders *woservice.Service) *WorkOrderSourceAdapter {
	return &WorkOrderSourceAdapter{orders: orders}
}

// ScheduledInWindow projects scheduled orders into board shape.
func (a *WorkOrderSourceAdapter) ScheduledInWindow(ctx context.Context, from, to time.Time) ([]board.Order, error) {
	items, err := a.orders.ListScheduledInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	projected := make([]board.Order, 0, len(items))
	for i := range items {
		wo := &items[i]
		order := board.Order{
			ID:              wo.ID,
			JobType:         wo.JobType,
			Status:          string(wo.Status),
			Priority:        string(wo.Priority),
			TimeWindowStart: wo.TimeWindowStart,
			TechnicianID:    wo.AssignedTechnicianID,
			TechnicianName:  wo.AssignedTechnician,
			DurationHours:   wo.EstimatedDurationHours,
			City:            wo.City,
		}
		if wo.ScheduledDate != nil {
			order.DateKey = week.DateKey(*wo.ScheduledDate)
		}
		projected = append(projected, order)
	}
	return projected, nil
}

// Backlog projects unscheduled orders into board shape.
func (a *WorkOrderSourceAdapter) Backlog(ctx context.Context, limit int) ([]board.Order, error) {
	items, err := a.orders.ListUnscheduled(ctx, limit)
	if err != nil {
		return nil, err
	}

	projected := make([]board.Order, 0, len(items))
	for i := range items {
		wo := &items[i]
		projected = append(projected, board.Order{
			ID:            wo.ID,
			JobType:       wo.JobType,
			Status:        string(wo.Status),
			Priority:      string(wo.Priority),
			DurationHours: wo.EstimatedDurationHours,
			City:          wo.City,
		})
	}
	return projected, nil
}

// Summary returns the quick-menu view of one order.
func (a *WorkOrderSourceAdapter) Summary(ctx context.Context, id uuid.UUID) (*scheduleservice.OrderSummary, error) {
	wo, err := a.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &scheduleservice.OrderSummary{
		ID:        wo.ID,
		Scheduled: wo.ScheduledDate != nil,
	}, nil
}

var _ scheduleservice.WorkOrderSource = (*WorkOrderSourceAdapter)(nil)

// TechnicianSourceAdapter feeds the board roster from the technicians
// module.
type TechnicianSourceAdapter struct {
	techs *techservice.Service
}

// NewTechnicianSource creates a roster source over the technicians service.
func NewTechnicianSource(techs *techservice.Service) *TechnicianSourceAdapter {
	return &TechnicianSourceAdapter{techs: techs}
}

// ActiveRoster returns the active technicians in board shape.
func (a *TechnicianSourceAdapter) ActiveRoster(ctx context.Context) ([]board.Technician, error) {
	items, err := a.techs.GetActiveRoster(ctx)
	if err != nil {
		return nil, err
	}

	roster := make([]board.Technician, 0, len(items))
	for i := range items {
		roster = append(roster, board.Technician{
			ID:   items[i].ID,
			Name: items[i].FullName(),
		})
	}
	return roster, nil
}

var _ scheduleservice.TechnicianSource = (*TechnicianSourceAdapter)(nil)

// AssignerAdapter routes board drops into work order mutations.
type AssignerAdapter struct {
	orders *woservice.Service
}

// NewAssigner creates a drop executor over the work orders service.
func NewAssigner(orders *woservice.Service) *AssignerAdapter {
	return &AssignerAdapter{orders: orders}
}

// Assign places the order with a technician on the given day.
func (a *AssignerAdapter) Assign(ctx context.Context, orderID, technicianID uuid.UUID, dateKey string) error {
	_, err := a.orders.Assign(ctx, orderID, wotransport.AssignWorkOrderRequest{
		TechnicianID: technicianID,
		Date:         dateKey,
	})
	return err
}

// ScheduleUnassigned places the order on a day without a technician.
func (a *AssignerAdapter) ScheduleUnassigned(ctx context.Context, orderID uuid.UUID, dateKey string) error {
	_, err := a.orders.ScheduleUnassigned(ctx, orderID, dateKey)
	return err
}

// Unschedule returns the order to the backlog.
func (a *AssignerAdapter) Unschedule(ctx context.Context, orderID uuid.UUID) error {
	_, err := a.orders.Unschedule(ctx, orderID)
	return err
}

var _ scheduleservice.Assigner = (*AssignerAdapter)(nil)
