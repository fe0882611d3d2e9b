package service

import (
	"context"
	"fmt"
	"time"

	"fieldservice_backend/internal/cache"
	"fieldservice_backend/internal/events"
	"fieldservice_backend/internal/workorders/repository"
	"fieldservice_backend/internal/workorders/transport"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 50

	// defaultDurationHours is assumed when an order has no estimate.
	defaultDurationHours = 1.0
)

// Repository is the persistence surface the service depends on.
type Repository interface {
	Create(ctx context.Context, wo *repository.WorkOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.WorkOrder, error)
	Update(ctx context.Context, wo *repository.WorkOrder, expectedVersion *int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	ListScheduledInRange(ctx context.Context, from, to time.Time) ([]repository.WorkOrder, error)
	ListUnscheduled(ctx context.Context, limit int) ([]repository.WorkOrder, error)
	GetStats(ctx context.Context) (*repository.Stats, error)
}

// TechnicianRef is the subset of technician data assignment needs.
type TechnicianRef struct {
	ID       uuid.UUID
	FullName string
	Email    string
	IsActive bool
}

// TechnicianDirectory resolves technicians for assignment without coupling
// this module to the technicians package.
type TechnicianDirectory interface {
	GetRef(ctx context.Context, id uuid.UUID) (*TechnicianRef, error)
}

// ReminderScheduler enqueues appointment reminders for assigned orders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, workOrderID uuid.UUID, startAt time.Time) error
}

// Service provides business logic for work orders.
type Service struct {
	repo      Repository
	techs     TechnicianDirectory
	eventBus  events.Bus
	store     *cache.Store
	cacheTTL  time.Duration
	log       *logger.Logger
	inflight  *inflightTracker
	reminders ReminderScheduler
}

// New creates a new work orders service.
func New(repo Repository, techs TechnicianDirectory, eventBus events.Bus, store *cache.Store, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		techs:    techs,
		eventBus: eventBus,
		store:    store,
		cacheTTL: cacheTTL,
		log:      log,
		inflight: newInflightTracker(),
	}
}

// SetReminderScheduler wires the optional reminder job client.
func (s *Service) SetReminderScheduler(r ReminderScheduler) {
	s.reminders = r
}

// Create registers a new work order.
func (s *Service) Create(ctx context.Context, req transport.CreateWorkOrderRequest) (*transport.WorkOrderResponse, error) {
	if req.TimeWindowStart != nil {
		if err := validateTimeWindow(*req.TimeWindowStart); err != nil {
			return nil, err
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = transport.PriorityNormal
	}

	now := time.Now()
	wo := &repository.WorkOrder{
		ID:                     uuid.New(),
		CustomerID:             req.CustomerID,
		JobType:                req.JobType,
		Status:                 transport.StatusScheduled,
		Priority:               priority,
		ScheduledDate:          parseDatePtr(req.ScheduledDate),
		TimeWindowStart:        req.TimeWindowStart,
		AssignedTechnician:     req.AssignedTechnician,
		EstimatedDurationHours: req.EstimatedDurationHours,
		Street:                 req.Street,
		City:                   req.City,
		PostalCode:             req.PostalCode,
		Notes:                  req.Notes,
		Version:                1,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	// An explicit technician id wins over the legacy name alias; the
	// denormalized name is refreshed from the roster so the two never drift.
	if req.AssignedTechnicianID != nil {
		tech, err := s.techs.GetRef(ctx, *req.AssignedTechnicianID)
		if err != nil {
			return nil, err
		}
		wo.AssignedTechnicianID = &tech.ID
		wo.AssignedTechnician = &tech.FullName
	}

	if err := s.repo.Create(ctx, wo); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.WorkOrderCreated{
		BaseEvent:   events.NewBaseEvent(),
		WorkOrderID: wo.ID,
		JobType:     wo.JobType,
		Priority:    string(wo.Priority),
	})

	resp := ToResponse(wo)
	return &resp, nil
}

// GetByID returns a work order by id, read through the detail cache.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.WorkOrderResponse, error) {
	key := cache.GroupWorkOrderDetail.Key(id.String())

	var cached transport.WorkOrderResponse
	if s.store.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(wo)
	s.store.SetJSON(ctx, key, resp, s.cacheTTL)
	return &resp, nil
}

// List returns a paginated work order listing, read through the list cache.
func (s *Service) List(ctx context.Context, req transport.ListWorkOrdersRequest) (*transport.WorkOrderListResponse, error) {
	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	key := cache.GroupWorkOrderList.Key(listCacheSuffix(req, page, pageSize))
	var cached transport.WorkOrderListResponse
	if s.store.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		Status:       req.Status,
		TechnicianID: req.TechnicianID,
		DateFrom:     parseDatePtr(strPtrOrNil(req.DateFrom)),
		DateTo:       parseDatePtr(strPtrOrNil(req.DateTo)),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.WorkOrderResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, ToResponse(&result.Items[i]))
	}

	resp := &transport.WorkOrderListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	s.store.SetJSON(ctx, key, resp, s.cacheTTL)
	return resp, nil
}

// Update applies a partial update. A provided Version must still match the
// stored row or the update is rejected with a conflict.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateWorkOrderRequest) (*transport.WorkOrderResponse, error) {
	release, err := s.inflight.begin(id)
	if err != nil {
		return nil, err
	}
	defer release()

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if req.JobType != nil {
		wo.JobType = *req.JobType
		changed = append(changed, "jobType")
	}
	if req.Status != nil {
		wo.Status = *req.Status
		changed = append(changed, "status")
	}
	if req.Priority != nil {
		wo.Priority = *req.Priority
		changed = append(changed, "priority")
	}
	if req.ScheduledDate != nil {
		if *req.ScheduledDate == "" {
			wo.ScheduledDate = nil
			wo.TimeWindowStart = nil
		} else {
			wo.ScheduledDate = parseDatePtr(req.ScheduledDate)
		}
		changed = append(changed, "scheduledDate")
	}
	if req.TimeWindowStart != nil {
		if *req.TimeWindowStart == "" {
			wo.TimeWindowStart = nil
		} else {
			if err := validateTimeWindow(*req.TimeWindowStart); err != nil {
				return nil, err
			}
			wo.TimeWindowStart = req.TimeWindowStart
		}
		changed = append(changed, "timeWindowStart")
	}
	if req.AssignedTechnicianID != nil {
		tech, err := s.techs.GetRef(ctx, *req.AssignedTechnicianID)
		if err != nil {
			return nil, err
		}
		wo.AssignedTechnicianID = &tech.ID
		wo.AssignedTechnician = &tech.FullName
		changed = append(changed, "assignedTechnicianId")
	}
	if req.EstimatedDurationHours != nil {
		wo.EstimatedDurationHours = req.EstimatedDurationHours
		changed = append(changed, "estimatedDurationHours")
	}
	if req.Street != nil {
		wo.Street = *req.Street
		changed = append(changed, "street")
	}
	if req.City != nil {
		wo.City = *req.City
		changed = append(changed, "city")
	}
	if req.PostalCode != nil {
		wo.PostalCode = *req.PostalCode
		changed = append(changed, "postalCode")
	}
	if req.Notes != nil {
		wo.Notes = *req.Notes
		changed = append(changed, "notes")
	}
	wo.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, wo, req.Version); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.WorkOrderUpdated{
		BaseEvent:     events.NewBaseEvent(),
		WorkOrderID:   wo.ID,
		ChangedFields: changed,
	})

	resp := ToResponse(wo)
	return &resp, nil
}

// Assign places a work order on a technician's day. This is the drop
// operation behind the board: it sets both the technician and the date in
// one mutation.
func (s *Service) Assign(ctx context.Context, id uuid.UUID, req transport.AssignWorkOrderRequest) (*transport.WorkOrderResponse, error) {
	release, err := s.inflight.begin(id)
	if err != nil {
		return nil, err
	}
	defer release()

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("invalid date")
	}

	tech, err := s.techs.GetRef(ctx, req.TechnicianID)
	if err != nil {
		return nil, err
	}
	if !tech.IsActive {
		return nil, apperr.Validation("technician is not active")
	}

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.Status.IsTerminal() {
		return nil, apperr.Conflict("cannot schedule a completed or cancelled work order")
	}

	previousTech := wo.AssignedTechnicianID
	wo.AssignedTechnicianID = &tech.ID
	wo.AssignedTechnician = &tech.FullName
	wo.ScheduledDate = &date
	wo.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, wo, nil); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.WorkOrderAssigned{
		BaseEvent:       events.NewBaseEvent(),
		WorkOrderID:     wo.ID,
		TechnicianID:    tech.ID,
		TechnicianName:  tech.FullName,
		TechnicianEmail: tech.Email,
		PreviousTechID:  previousTech,
		ScheduledDate:   req.Date,
		JobType:         wo.JobType,
		TimeWindowStart: wo.TimeWindowStart,
		City:            wo.City,
	})

	s.scheduleReminder(ctx, wo)

	resp := ToResponse(wo)
	return &resp, nil
}

// ScheduleUnassigned places a work order on a day without a technician,
// clearing any existing assignment. This backs drops onto the board's
// unassigned row.
func (s *Service) ScheduleUnassigned(ctx context.Context, id uuid.UUID, dateKey string) (*transport.WorkOrderResponse, error) {
	release, err := s.inflight.begin(id)
	if err != nil {
		return nil, err
	}
	defer release()

	date, err := parseDate(dateKey)
	if err != nil {
		return nil, apperr.Validation("invalid date")
	}

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.Status.IsTerminal() {
		return nil, apperr.Conflict("cannot schedule a completed or cancelled work order")
	}

	previousTech := wo.AssignedTechnicianID
	wo.AssignedTechnicianID = nil
	wo.AssignedTechnician = nil
	wo.ScheduledDate = &date
	wo.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, wo, nil); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.WorkOrderUnassigned{
		BaseEvent:      events.NewBaseEvent(),
		WorkOrderID:    wo.ID,
		PreviousTechID: previousTech,
	})

	resp := ToResponse(wo)
	return &resp, nil
}

// Unassign clears the technician but keeps the order on its scheduled day.
func (s *Service) Unassign(ctx context.Context, id uuid.UUID) (*transport.WorkOrderResponse, error) {
	release, err := s.inflight.begin(id)
	if err != nil {
		return nil, err
	}
	defer release()

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousTech := wo.AssignedTechnicianID
	wo.AssignedTechnicianID = nil
	wo.AssignedTechnician = nil
	wo.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, wo, nil); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.WorkOrderUnassigned{
		BaseEvent:      events.NewBaseEvent(),
		WorkOrderID:    wo.ID,
		PreviousTechID: previousTech,
	})

	resp := ToResponse(wo)
	return &resp, nil
}

// Unschedule clears the date and time window, returning the order to the
// backlog. The technician link is kept so rescheduling suggests the same
// person.
func (s *Service) Unschedule(ctx context.Context, id uuid.UUID) (*transport.WorkOrderResponse, error) {
	release, err := s.inflight.begin(id)
	if err != nil {
		return nil, err
	}
	defer release()

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wo.ScheduledDate = nil
	wo.TimeWindowStart = nil
	wo.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, wo, nil); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.WorkOrderUnscheduled{
		BaseEvent:   events.NewBaseEvent(),
		WorkOrderID: wo.ID,
	})

	resp := ToResponse(wo)
	return &resp, nil
}

// Delete removes a work order. Scheduled orders are protected: they must be
// unscheduled first, so a card can never vanish off the board through a
// stray delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	release, err := s.inflight.begin(id)
	if err != nil {
		return err
	}
	defer release()

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wo.ScheduledDate != nil {
		return apperr.Conflict("cannot delete a scheduled work order; unschedule it first")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.WorkOrderDeleted{
		BaseEvent:   events.NewBaseEvent(),
		WorkOrderID: id,
	})

	return nil
}

// GetStats returns dashboard aggregates, read through the stats cache.
func (s *Service) GetStats(ctx context.Context) (*transport.WorkOrderStatsResponse, error) {
	key := cache.GroupDashboardStats.Prefix()

	var cached transport.WorkOrderStatsResponse
	if s.store.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	resp := &transport.WorkOrderStatsResponse{
		Total:      stats.Total,
		ByStatus:   stats.ByStatus,
		ByPriority: stats.ByPriority,
		Unassigned: stats.Unassigned,
	}
	s.store.SetJSON(ctx, key, resp, s.cacheTTL)
	return resp, nil
}

// ListScheduledInRange exposes the board's raw data source.
func (s *Service) ListScheduledInRange(ctx context.Context, from, to time.Time) ([]repository.WorkOrder, error) {
	return s.repo.ListScheduledInRange(ctx, from, to)
}

// ListUnscheduled exposes the backlog next to the board.
func (s *Service) ListUnscheduled(ctx context.Context, limit int) ([]repository.WorkOrder, error) {
	return s.repo.ListUnscheduled(ctx, limit)
}

func (s *Service) scheduleReminder(ctx context.Context, wo *repository.WorkOrder) {
	if s.reminders == nil || wo.ScheduledDate == nil {
		return
	}

	startAt := *wo.ScheduledDate
	if wo.TimeWindowStart != nil {
		if t, err := time.Parse("15:04:05", *wo.TimeWindowStart); err == nil {
			startAt = startAt.Add(time.Duration(t.Hour()) * time.Hour)
		}
	}

	if err := s.reminders.ScheduleReminder(ctx, wo.ID, startAt); err != nil {
		s.log.Warn("failed to schedule reminder", "workOrderId", wo.ID, "error", err)
	}
}

// ToResponse converts a work order model to its transport shape.
func ToResponse(wo *repository.WorkOrder) transport.WorkOrderResponse {
	return transport.WorkOrderResponse{
		ID:                     wo.ID,
		CustomerID:             wo.CustomerID,
		JobType:                wo.JobType,
		Status:                 wo.Status,
		StatusTheme:            wo.Status.DisplayTheme(),
		Priority:               wo.Priority,
		PriorityTheme:          wo.Priority.DisplayTheme(),
		ScheduledDate:          formatDatePtr(wo.ScheduledDate),
		TimeWindowStart:        wo.TimeWindowStart,
		AssignedTechnicianID:   wo.AssignedTechnicianID,
		AssignedTechnician:     wo.AssignedTechnician,
		EstimatedDurationHours: wo.EstimatedDurationHours,
		Street:                 wo.Street,
		City:                   wo.City,
		PostalCode:             wo.PostalCode,
		Notes:                  wo.Notes,
		Version:                wo.Version,
		CreatedAt:              wo.CreatedAt,
		UpdatedAt:              wo.UpdatedAt,
	}
}

func validateTimeWindow(value string) error {
	if _, err := time.Parse("15:04:05", value); err != nil {
		return apperr.Validation("timeWindowStart must be in HH:MM:SS format")
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parseDatePtr(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil
	}
	return &t
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func listCacheSuffix(req transport.ListWorkOrdersRequest, page, pageSize int) string {
	status := ""
	if req.Status != nil {
		status = string(*req.Status)
	}
	tech := ""
	if req.TechnicianID != nil {
		tech = req.TechnicianID.String()
	}
	return fmt.Sprintf("%s:%s:%s:%s:%d:%d", status, tech, req.DateFrom, req.DateTo, page, pageSize)
}
