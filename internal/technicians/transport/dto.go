package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateTechnicianRequest is the request body for creating a technician.
type CreateTechnicianRequest struct {
	FirstName       string   `json:"firstName" validate:"required,min=1,max=100"`
	LastName        string   `json:"lastName" validate:"required,min=1,max=100"`
	Phone           string   `json:"phone,omitempty" validate:"max=30"`
	Email           string   `json:"email,omitempty" validate:"omitempty,email"`
	AssignedVehicle *string  `json:"assignedVehicle,omitempty" validate:"omitempty,max=100"`
	HomeRegion      *string  `json:"homeRegion,omitempty" validate:"omitempty,max=100"`
	Skills          []string `json:"skills,omitempty" validate:"dive,min=1,max=60"`
}

// UpdateTechnicianRequest is the request body for updating a technician.
type UpdateTechnicianRequest struct {
	FirstName       *string  `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName        *string  `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone           *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email           *string  `json:"email,omitempty" validate:"omitempty,email"`
	AssignedVehicle *string  `json:"assignedVehicle,omitempty" validate:"omitempty,max=100"`
	HomeRegion      *string  `json:"homeRegion,omitempty" validate:"omitempty,max=100"`
	Skills          []string `json:"skills,omitempty" validate:"dive,min=1,max=60"`
}

// SetActiveRequest toggles a technician's availability for assignment.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// ListTechniciansRequest is the query parameters for listing technicians.
type ListTechniciansRequest struct {
	ActiveOnly bool `form:"activeOnly"`
	Page       int  `form:"page" validate:"min=0"`
	PageSize   int  `form:"pageSize" validate:"min=0,max=200"`
}

// TechnicianResponse is the response body for a technician.
type TechnicianResponse struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	IsActive        bool      `json:"isActive"`
	AssignedVehicle *string   `json:"assignedVehicle,omitempty"`
	HomeRegion      *string   `json:"homeRegion,omitempty"`
	Skills          []string  `json:"skills"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TechnicianListResponse is the paginated response for listing technicians.
type TechnicianListResponse struct {
	Items      []TechnicianResponse `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}
