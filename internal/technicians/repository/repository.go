package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldservice_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Technician represents the technician database model.
type Technician struct {
	ID              uuid.UUID `db:"id"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	Phone           string    `db:"phone"`
	Email           string    `db:"email"`
	IsActive        bool      `db:"is_active"`
	AssignedVehicle *string   `db:"assigned_vehicle"`
	HomeRegion      *string   `db:"home_region"`
	Skills          []string  `db:"skills"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// FullName returns the display name work orders historically keyed on.
func (t *Technician) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

const technicianNotFoundMsg = "technician not found"

const technicianColumns = `id, first_name, last_name, phone, email, is_active,
	assigned_vehicle, home_region, skills, created_at, updated_at`

// Repository provides database operations for technicians.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new technicians repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanTechnician(row pgx.Row) (*Technician, error) {
	var tech Technician
	err := row.Scan(
		&tech.ID, &tech.FirstName, &tech.LastName, &tech.Phone, &tech.Email,
		&tech.IsActive, &tech.AssignedVehicle, &tech.HomeRegion, &tech.Skills,
		&tech.CreatedAt, &tech.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

// Create inserts a new technician.
func (r *Repository) Create(ctx context.Context, tech *Technician) error {
	query := `
		INSERT INTO technicians (
			id, first_name, last_name, phone, email, is_active,
			assigned_vehicle, home_region, skills, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	_, err := r.pool.Exec(ctx, query,
		tech.ID, tech.FirstName, tech.LastName, tech.Phone, tech.Email, tech.IsActive,
		tech.AssignedVehicle, tech.HomeRegion, tech.Skills, tech.CreatedAt, tech.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}

	return nil
}

// GetByID retrieves a technician by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id = $1`

	tech, err := scanTechnician(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(technicianNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	return tech, nil
}

// Update updates an existing technician's registry fields.
func (r *Repository) Update(ctx context.Context, tech *Technician) error {
	query := `
		UPDATE technicians SET
			first_name = $2,
			last_name = $3,
			phone = $4,
			email = $5,
			assigned_vehicle = $6,
			home_region = $7,
			skills = $8,
			updated_at = $9
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		tech.ID, tech.FirstName, tech.LastName, tech.Phone, tech.Email,
		tech.AssignedVehicle, tech.HomeRegion, tech.Skills, tech.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update technician: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMsg)
	}

	return nil
}

// SetActive toggles a technician's active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE technicians SET is_active = $2, updated_at = $3 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isActive, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set technician active flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMsg)
	}

	return nil
}

// ListParams contains parameters for listing technicians.
type ListParams struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ListResult contains the result of listing technicians.
type ListResult struct {
	Items      []Technician
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List retrieves technicians with optional active filtering.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM technicians`
	args := []interface{}{}
	if params.ActiveOnly {
		baseQuery += ` WHERE is_active = TRUE`
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count technicians: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := fmt.Sprintf(
		`SELECT %s %s ORDER BY last_name, first_name LIMIT $1 OFFSET $2`,
		technicianColumns, baseQuery,
	)

	rows, err := r.pool.Query(ctx, selectQuery, params.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var items []Technician
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		items = append(items, *tech)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate technicians: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListActive retrieves all active technicians without pagination, for the
// schedule board roster.
func (r *Repository) ListActive(ctx context.Context) ([]Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE is_active = TRUE ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active technicians: %w", err)
	}
	defer rows.Close()

	var items []Technician
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		items = append(items, *tech)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate technicians: %w", err)
	}

	return items, nil
}
