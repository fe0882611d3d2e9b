// Package technicians provides the technician registry domain module.
package technicians

import (
	"fieldservice_backend/internal/events"
	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/technicians/handler"
	"fieldservice_backend/internal/technicians/repository"
	"fieldservice_backend/internal/technicians/service"
	"fieldservice_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the technicians domain module
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates a new technicians module with all dependencies wired
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		svc:     svc,
	}
}

// Service exposes the technicians service for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "technicians"
}

// RegisterRoutes registers the module's routes under /api/v1/technicians
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	technicians := ctx.Protected.Group("/technicians")
	m.handler.RegisterRoutes(technicians)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
