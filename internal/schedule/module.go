// Package schedule provides the weekly dispatch board domain module.
package schedule

import (
	"fieldservice_backend/internal/cache"
	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/schedule/handler"
	"fieldservice_backend/internal/schedule/service"
	"fieldservice_backend/platform/logger"
	"fieldservice_backend/platform/validator"
)

// Module represents the schedule domain module
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates a new schedule module. The sources and assigner are
// adapters over the work orders and technicians modules.
func NewModule(
	orders service.WorkOrderSource,
	techs service.TechnicianSource,
	assigner service.Assigner,
	store *cache.Store,
	cfg service.Config,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	svc := service.New(orders, techs, assigner, store, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		svc:     svc,
	}
}

// Service exposes the schedule service.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "schedule"
}

// RegisterRoutes registers the module's routes under /api/v1/schedule
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	schedule := ctx.Protected.Group("/schedule")
	m.handler.RegisterRoutes(schedule)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
