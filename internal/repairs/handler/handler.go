// Package handler exposes the repairs module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixfurn_backend/internal/repairs/service"
	"fixfurn_backend/internal/repairs/transport"
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

// Estimate handles POST /api/v1/repairs/estimate.
func (h *Handler) Estimate(c *gin.Context) {
	var req transport.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	est, err := h.service.Estimate(c.Request.Context(), req.Issue, req.Material, req.SizeCategory)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToEstimateResponse(est))
}
