package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldservice_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Customer represents the customer database model.
type Customer struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Phone      string    `db:"phone"`
	Email      string    `db:"email"`
	Street     string    `db:"street"`
	City       string    `db:"city"`
	PostalCode string    `db:"postal_code"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

const customerNotFoundMsg = "customer not found"

const customerColumns = `id, name, phone, email, street, city, postal_code, created_at, updated_at`

// Repository provides database operations for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var cust Customer
	err := row.Scan(
		&cust.ID, &cust.Name, &cust.Phone, &cust.Email,
		&cust.Street, &cust.City, &cust.PostalCode,
		&cust.CreatedAt, &cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

// Create inserts a new customer.
func (r *Repository) Create(ctx context.Context, cust *Customer) error {
	query := `
		INSERT INTO customers (
			id, name, phone, email, street, city, postal_code, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	_, err := r.pool.Exec(ctx, query,
		cust.ID, cust.Name, cust.Phone, cust.Email,
		cust.Street, cust.City, cust.PostalCode,
		cust.CreatedAt, cust.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	cust, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(customerNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return cust, nil
}

// Update updates an existing customer.
func (r *Repository) Update(ctx context.Context, cust *Customer) error {
	query := `
		UPDATE customers SET
			name = $2,
			phone = $3,
			email = $4,
			street = $5,
			city = $6,
			postal_code = $7,
			updated_at = $8
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		cust.ID, cust.Name, cust.Phone, cust.Email,
		cust.Street, cust.City, cust.PostalCode, cust.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}

	return nil
}

// ListParams contains parameters for listing customers.
type ListParams struct {
	Search   string
	Page     int
	PageSize int
}

// ListResult contains the result of listing customers.
type ListResult struct {
	Items      []Customer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List retrieves customers with optional name search.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM customers`
	args := []interface{}{}
	if params.Search != "" {
		baseQuery += ` WHERE name ILIKE $1 OR city ILIKE $1`
		args = append(args, "%"+params.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY name LIMIT $%d OFFSET $%d`,
		customerColumns, baseQuery, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var items []Customer
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		items = append(items, *cust)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
