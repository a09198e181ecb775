// Package handler exposes the concierge chat endpoint over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fixfurn_backend/internal/concierge/transport"
	"fixfurn_backend/platform/httpkit"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

// Conversationalist is the orchestrator capability the handler needs.
type Conversationalist interface {
	HandleUserMessage(ctx context.Context, sessionID, message string) (string, error)
}

type Handler struct {
	orchestrator Conversationalist
	validator    *validator.Validator
	log          *logger.Logger
}

func NewHandler(orch Conversationalist, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{orchestrator: orch, validator: val, log: log}
}

// Chat handles POST /api/v1/chat.
func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply, err := h.orchestrator.HandleUserMessage(c.Request.Context(), sessionID, req.Message)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ChatResponse{SessionID: sessionID, Reply: reply})
}
