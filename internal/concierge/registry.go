package concierge

import (
	"context"

	"fixfurn_backend/internal/concierge/domain"
)

// ToolHandler executes one validated tool call and returns the payload the
// reasoning backend will see.
type ToolHandler func(ctx context.Context, args map[string]any) (map[string]any, error)

// Tool binds a declared schema to its handler.
type Tool struct {
	Schema  domain.ToolSchema
	Handler ToolHandler
}

// Registry is the fixed set of callable tools, closed at startup.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Later registrations under the same name replace
// earlier ones; declaration order is preserved.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Schema.Name]; !exists {
		r.order = append(r.order, t.Schema.Name)
	}
	r.tools[t.Schema.Name] = t
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Schemas returns all declared schemas in registration order. This is the
// exact declaration set sent to the reasoning backend.
func (r *Registry) Schemas() []domain.ToolSchema {
	schemas := make([]domain.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].Schema)
	}
	return schemas
}
