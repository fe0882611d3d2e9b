package service

import (
	"context"
	"time"

	"fieldservice_backend/internal/events"
	"fieldservice_backend/internal/technicians/repository"
	"fieldservice_backend/internal/technicians/transport"
	"fieldservice_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
)

// Service provides business logic for the technician registry.
type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
}

// New creates a new technicians service.
func New(repo *repository.Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus}
}

// Create registers a new technician.
func (s *Service) Create(ctx context.Context, req transport.CreateTechnicianRequest) (*transport.TechnicianResponse, error) {
	now := time.Now()
	tech := &repository.Technician{
		ID:              uuid.New(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           phone.NormalizeE164(req.Phone),
		Email:           req.Email,
		IsActive:        true,
		AssignedVehicle: req.AssignedVehicle,
		HomeRegion:      req.HomeRegion,
		Skills:          nonNilSkills(req.Skills),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, tech); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, tech.ID)

	resp := toResponse(tech)
	return &resp, nil
}

// GetByID returns a technician by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.TechnicianResponse, error) {
	tech, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(tech)
	return &resp, nil
}

// GetActiveRoster returns all active technicians for the schedule board.
func (s *Service) GetActiveRoster(ctx context.Context) ([]repository.Technician, error) {
	return s.repo.ListActive(ctx)
}

// List returns a paginated technician listing.
func (s *Service) List(ctx context.Context, req transport.ListTechniciansRequest) (*transport.TechnicianListResponse, error) {
	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		ActiveOnly: req.ActiveOnly,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.TechnicianResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toResponse(&result.Items[i]))
	}

	return &transport.TechnicianListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update modifies technician registry fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTechnicianRequest) (*transport.TechnicianResponse, error) {
	tech, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		tech.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		tech.LastName = *req.LastName
	}
	if req.Phone != nil {
		tech.Phone = phone.NormalizeE164(*req.Phone)
	}
	if req.Email != nil {
		tech.Email = *req.Email
	}
	if req.AssignedVehicle != nil {
		tech.AssignedVehicle = req.AssignedVehicle
	}
	if req.HomeRegion != nil {
		tech.HomeRegion = req.HomeRegion
	}
	if req.Skills != nil {
		tech.Skills = nonNilSkills(req.Skills)
	}
	tech.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, tech); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, tech.ID)

	resp := toResponse(tech)
	return &resp, nil
}

// SetActive toggles whether a technician is eligible for assignment.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	if err := s.repo.SetActive(ctx, id, isActive); err != nil {
		return err
	}

	s.publishChanged(ctx, id)
	return nil
}

func (s *Service) publishChanged(ctx context.Context, id uuid.UUID) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.TechnicianChanged{
		BaseEvent:    events.NewBaseEvent(),
		TechnicianID: id,
	})
}

func toResponse(tech *repository.Technician) transport.TechnicianResponse {
	return transport.TechnicianResponse{
		ID:              tech.ID,
		FirstName:       tech.FirstName,
		LastName:        tech.LastName,
		FullName:        tech.FullName(),
		Phone:           tech.Phone,
		Email:           tech.Email,
		IsActive:        tech.IsActive,
		AssignedVehicle: tech.AssignedVehicle,
		HomeRegion:      tech.HomeRegion,
		Skills:          nonNilSkills(tech.Skills),
		CreatedAt:       tech.CreatedAt,
		UpdatedAt:       tech.UpdatedAt,
	}
}

func nonNilSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
