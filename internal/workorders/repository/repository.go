package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldservice_backend/internal/workorders/transport"
	"fieldservice_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkOrder represents the work order database model. ScheduledDate is a
// calendar date stored as a DATE column; the time portion is always midnight
// and must never be interpreted in a timezone-sensitive way.
type WorkOrder struct {
	ID                     uuid.UUID  `db:"id"`
	CustomerID             *uuid.UUID `db:"customer_id"`
	JobType                string     `db:"job_type"`
	Status                 transport.WorkOrderStatus
	Priority               transport.WorkOrderPriority
	ScheduledDate          *time.Time `db:"scheduled_date"`
	TimeWindowStart        *string    `db:"time_window_start"`
	AssignedTechnicianID   *uuid.UUID `db:"assigned_technician_id"`
	AssignedTechnician     *string    `db:"assigned_technician"`
	EstimatedDurationHours *float64   `db:"estimated_duration_hours"`
	Street                 string     `db:"street"`
	City                   string     `db:"city"`
	PostalCode             string     `db:"postal_code"`
	Notes                  string     `db:"notes"`
	Version                int64      `db:"version"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

const workOrderNotFoundMsg = "work order not found"

const workOrderColumns = `id, customer_id, job_type, status, priority,
	scheduled_date, time_window_start, assigned_technician_id, assigned_technician,
	estimated_duration_hours, street, city, postal_code, notes, version,
	created_at, updated_at`

// Repository provides database operations for work orders.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new work orders repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanWorkOrder(row pgx.Row) (*WorkOrder, error) {
	var wo WorkOrder
	err := row.Scan(
		&wo.ID, &wo.CustomerID, &wo.JobType, &wo.Status, &wo.Priority,
		&wo.ScheduledDate, &wo.TimeWindowStart, &wo.AssignedTechnicianID, &wo.AssignedTechnician,
		&wo.EstimatedDurationHours, &wo.Street, &wo.City, &wo.PostalCode, &wo.Notes, &wo.Version,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// Create inserts a new work order.
func (r *Repository) Create(ctx context.Context, wo *WorkOrder) error {
	query := `
		INSERT INTO work_orders (
			id, customer_id, job_type, status, priority,
			scheduled_date, time_window_start, assigned_technician_id, assigned_technician,
			estimated_duration_hours, street, city, postal_code, notes, version,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)`

	_, err := r.pool.Exec(ctx, query,
		wo.ID, wo.CustomerID, wo.JobType, wo.Status, wo.Priority,
		wo.ScheduledDate, wo.TimeWindowStart, wo.AssignedTechnicianID, wo.AssignedTechnician,
		wo.EstimatedDurationHours, wo.Street, wo.City, wo.PostalCode, wo.Notes, wo.Version,
		wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create work order: %w", err)
	}

	return nil
}

// GetByID retrieves a work order by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`

	wo, err := scanWorkOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(workOrderNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	return wo, nil
}

// Update writes the full row back, bumping version. When expectedVersion is
// non-nil the write only lands if the stored version still matches; a stale
// version surfaces as a conflict so concurrent edits cannot silently clobber
// each other.
func (r *Repository) Update(ctx context.Context, wo *WorkOrder, expectedVersion *int64) error {
	query := `
		UPDATE work_orders SET
			customer_id = $2,
			job_type = $3,
			status = $4,
			priority = $5,
			scheduled_date = $6,
			time_window_start = $7,
			assigned_technician_id = $8,
			assigned_technician = $9,
			estimated_duration_hours = $10,
			street = $11,
			city = $12,
			postal_code = $13,
			notes = $14,
			version = version + 1,
			updated_at = $15
		WHERE id = $1`

	args := []interface{}{
		wo.ID, wo.CustomerID, wo.JobType, wo.Status, wo.Priority,
		wo.ScheduledDate, wo.TimeWindowStart, wo.AssignedTechnicianID, wo.AssignedTechnician,
		wo.EstimatedDurationHours, wo.Street, wo.City, wo.PostalCode, wo.Notes,
		wo.UpdatedAt,
	}
	if expectedVersion != nil {
		query += ` AND version = $16`
		args = append(args, *expectedVersion)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update work order: %w", err)
	}

	if result.RowsAffected() == 0 {
		if expectedVersion == nil {
			return apperr.NotFound(workOrderNotFoundMsg)
		}
		// Distinguish a missing row from a version mismatch.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM work_orders WHERE id = $1)`, wo.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check work order existence: %w", err)
		}
		if !exists {
			return apperr.NotFound(workOrderNotFoundMsg)
		}
		return apperr.Conflict("work order was modified by another request")
	}

	wo.Version++
	return nil
}

// Delete removes a work order. The scheduled-date guard lives in the service;
// the repository enforces it again at the SQL level so a race between read
// and delete cannot drop a scheduled order.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM work_orders WHERE id = $1 AND scheduled_date IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM work_orders WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check work order existence: %w", err)
		}
		if exists {
			return apperr.Conflict("cannot delete a scheduled work order; unschedule it first")
		}
		return apperr.NotFound(workOrderNotFoundMsg)
	}

	return nil
}

// ListParams contains filters for listing work orders.
type ListParams struct {
	Status       *transport.WorkOrderStatus
	TechnicianID *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

// ListResult contains the result of listing work orders.
type ListResult struct {
	Items      []WorkOrder
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List retrieves work orders with optional filters, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM work_orders WHERE 1=1`
	args := []interface{}{}

	addFilter := func(clause string, value interface{}) {
		args = append(args, value)
		baseQuery += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}

	if params.Status != nil {
		addFilter("status =", *params.Status)
	}
	if params.TechnicianID != nil {
		addFilter("assigned_technician_id =", *params.TechnicianID)
	}
	if params.DateFrom != nil {
		addFilter("scheduled_date >=", *params.DateFrom)
	}
	if params.DateTo != nil {
		addFilter("scheduled_date <=", *params.DateTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count work orders: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		workOrderColumns, baseQuery, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	items, err := collectWorkOrders(rows)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListScheduledInRange returns every work order whose scheduled date falls
// inside [from, to], inclusive. This is the board's data source; pagination
// is deliberately absent because a week window is bounded.
func (r *Repository) ListScheduledInRange(ctx context.Context, from, to time.Time) ([]WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + `
		FROM work_orders
		WHERE scheduled_date IS NOT NULL
		  AND scheduled_date >= $1
		  AND scheduled_date <= $2
		ORDER BY scheduled_date, time_window_start NULLS LAST`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled work orders: %w", err)
	}
	defer rows.Close()

	return collectWorkOrders(rows)
}

// ListUnscheduled returns work orders without a scheduled date, oldest first,
// skipping terminal statuses. This feeds the backlog panel next to the board.
func (r *Repository) ListUnscheduled(ctx context.Context, limit int) ([]WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + `
		FROM work_orders
		WHERE scheduled_date IS NULL
		  AND status NOT IN ('completed', 'cancelled')
		ORDER BY created_at
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unscheduled work orders: %w", err)
	}
	defer rows.Close()

	return collectWorkOrders(rows)
}

func collectWorkOrders(rows pgx.Rows) ([]WorkOrder, error) {
	var items []WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		items = append(items, *wo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work orders: %w", err)
	}
	return items, nil
}

// Stats holds dashboard aggregates over all work orders.
type Stats struct {
	Total      int
	ByStatus   map[string]int
	ByPriority map[string]int
	Unassigned int
}

// GetStats computes dashboard aggregates in a single pass.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx, `
		SELECT status, priority, assigned_technician_id IS NULL, COUNT(*)
		FROM work_orders
		GROUP BY status, priority, assigned_technician_id IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query work order stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, priority string
		var unassigned bool
		var count int
		if err := rows.Scan(&status, &priority, &unassigned, &count); err != nil {
			return nil, fmt.Errorf("failed to scan work order stats: %w", err)
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByPriority[priority] += count
		if unassigned {
			stats.Unassigned += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work order stats: %w", err)
	}

	return stats, nil
}
