// Package workorders provides the work order lifecycle domain module.
package workorders

import (
	"time"

	"fieldservice_backend/internal/cache"
	"fieldservice_backend/internal/events"
	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/workorders/handler"
	"fieldservice_backend/internal/workorders/repository"
	"fieldservice_backend/internal/workorders/service"
	"fieldservice_backend/platform/logger"
	"fieldservice_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the work orders domain module
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates a new work orders module with all dependencies wired.
// The technician directory is an adapter over the technicians module.
func NewModule(
	pool *pgxpool.Pool,
	techs service.TechnicianDirectory,
	eventBus events.Bus,
	store *cache.Store,
	cacheTTL time.Duration,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, techs, eventBus, store, cacheTTL, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		svc:     svc,
	}
}

// Service exposes the work orders service for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "workorders"
}

// RegisterRoutes registers the module's routes under /api/v1/work-orders
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	workOrders := ctx.Protected.Group("/work-orders")
	m.handler.RegisterRoutes(workOrders)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
