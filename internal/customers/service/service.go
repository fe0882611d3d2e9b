package service

import (
	"context"
	"time"

	"fieldservice_backend/internal/customers/repository"
	"fieldservice_backend/internal/customers/transport"
	"fieldservice_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
)

// Service provides business logic for the customer registry.
type Service struct {
	repo *repository.Repository
}

// New creates a new customers service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new customer.
func (s *Service) Create(ctx context.Context, req transport.CreateCustomerRequest) (*transport.CustomerResponse, error) {
	now := time.Now()
	cust := &repository.Customer{
		ID:         uuid.New(),
		Name:       req.Name,
		Phone:      phone.NormalizeE164(req.Phone),
		Email:      req.Email,
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, cust); err != nil {
		return nil, err
	}

	resp := toResponse(cust)
	return &resp, nil
}

// GetByID returns a customer by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.CustomerResponse, error) {
	cust, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(cust)
	return &resp, nil
}

// List returns a paginated customer listing.
func (s *Service) List(ctx context.Context, req transport.ListCustomersRequest) (*transport.CustomerListResponse, error) {
	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		Search:   req.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.CustomerResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toResponse(&result.Items[i]))
	}

	return &transport.CustomerListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update modifies customer fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCustomerRequest) (*transport.CustomerResponse, error) {
	cust, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cust.Name = *req.Name
	}
	if req.Phone != nil {
		cust.Phone = phone.NormalizeE164(*req.Phone)
	}
	if req.Email != nil {
		cust.Email = *req.Email
	}
	if req.Street != nil {
		cust.Street = *req.Street
	}
	if req.City != nil {
		cust.City = *req.City
	}
	if req.PostalCode != nil {
		cust.PostalCode = *req.PostalCode
	}
	cust.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, cust); err != nil {
		return nil, err
	}

	resp := toResponse(cust)
	return &resp, nil
}

func toResponse(cust *repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:         cust.ID,
		Name:       cust.Name,
		Phone:      cust.Phone,
		Email:      cust.Email,
		Street:     cust.Street,
		City:       cust.City,
		PostalCode: cust.PostalCode,
		CreatedAt:  cust.CreatedAt,
		UpdatedAt:  cust.UpdatedAt,
	}
}
