// Package catalog wires the product index, search service and HTTP handler.
package catalog

import (
	"fixfurn_backend/internal/catalog/handler"
	"fixfurn_backend/internal/catalog/repository"
	"fixfurn_backend/internal/catalog/service"
	apphttp "fixfurn_backend/internal/http"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule builds the catalog module from the ingested product list.
func NewModule(products []repository.Product, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(products)
	svc := service.NewService(repo, log)
	return &Module{
		service: svc,
		handler: handler.NewHandler(svc, val, log),
	}
}

func (m *Module) Name() string { return "catalog" }

// Service exposes catalog search to the concierge tool layer.
func (m *Module) Service() *service.Service { return m.service }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog/search", m.handler.Search)
}
