// Package handler exposes the catalog module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixfurn_backend/internal/catalog/service"
	"fixfurn_backend/internal/catalog/transport"
	"fixfurn_backend/platform/httpkit"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

type Handler struct {
	service   *service.Service
	validator *validator.Validator
	log       *logger.Logger
}

func NewHandler(svc *service.Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: svc, validator: val, log: log}
}

// Search handles GET /api/v1/catalog/search.
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	matches := h.service.Search(c.Request.Context(), service.Query{
		Terms:       req.Query,
		Material:    req.Material,
		Color:       req.Color,
		DimensionCM: req.DimensionCM,
		ToleranceCM: req.ToleranceCM,
		Limit:       req.Limit,
	})

	httpkit.OK(c, transport.ToSearchResponse(req.Query, matches))
}
