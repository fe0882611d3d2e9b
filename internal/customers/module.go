// Package customers provides the customer registry domain module.
package customers

import (
	"fieldservice_backend/internal/customers/handler"
	"fieldservice_backend/internal/customers/repository"
	"fieldservice_backend/internal/customers/service"
	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the customers domain module
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates a new customers module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		svc:     svc,
	}
}

// Service exposes the customers service for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "customers"
}

// RegisterRoutes registers the module's routes under /api/v1/customers
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	customers := ctx.Protected.Group("/customers")
	m.handler.RegisterRoutes(customers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
