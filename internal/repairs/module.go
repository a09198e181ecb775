// Package repairs wires the rule table, estimation service and HTTP handler.
package repairs

import (
	"fixfurn_backend/internal/events"
	apphttp "fixfurn_backend/internal/http"
	"fixfurn_backend/internal/repairs/handler"
	"fixfurn_backend/internal/repairs/repository"
	"fixfurn_backend/internal/repairs/service"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule loads the rule table and builds the estimation service.
// A missing or malformed rule table is startup-fatal.
func NewModule(rulesPath string, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	repo, err := repository.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	svc := service.NewService(repo, bus, log)
	return &Module{
		service: svc,
		handler: handler.NewHandler(svc, val, log),
	}, nil
}

func (m *Module) Name() string { return "repairs" }

// Service exposes estimation to the concierge tool layer.
func (m *Module) Service() *service.Service { return m.service }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/repairs/estimate", m.handler.Estimate)
}
