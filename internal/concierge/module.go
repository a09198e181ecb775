package concierge

import (
	"fixfurn_backend/internal/concierge/domain"
	"fixfurn_backend/internal/concierge/handler"
	apphttp "fixfurn_backend/internal/http"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

// Module wires the tool registry, dispatcher and orchestrator behind the
// chat endpoint.
type Module struct {
	orchestrator *Orchestrator
	handler      *handler.Handler
}

func NewModule(model domain.ReasoningModel, deps ToolDependencies, persona Persona, cfg Config, val *validator.Validator, log *logger.Logger) *Module {
	dispatcher := NewDispatcher(NewToolset(deps), log)
	orch := NewOrchestrator(model, dispatcher, persona, cfg, log)
	return &Module{
		orchestrator: orch,
		handler:      handler.NewHandler(orch, val, log),
	}
}

func (m *Module) Name() string { return "concierge" }

func (m *Module) Orchestrator() *Orchestrator { return m.orchestrator }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	chat := ctx.V1.Group("/")
	if ctx.ChatRateLimiter != nil {
		chat.Use(ctx.ChatRateLimiter.Middleware())
	}
	chat.POST("/chat", m.handler.Chat)
}
