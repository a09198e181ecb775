package concierge

import (
	"context"
	"fmt"
	"time"

	"fixfurn_backend/internal/concierge/domain"
	"fixfurn_backend/platform/apperr"
	"fixfurn_backend/platform/logger"
)

// Dispatcher is the boundary between the reasoning backend's proposals and
// the deterministic tools. Every proposal is validated against its declared
// schema before the handler runs, and no handler fault ever crosses this
// boundary as anything but a typed result.
type Dispatcher struct {
	registry *Registry
	log      *logger.Logger
}

func NewDispatcher(registry *Registry, log *logger.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// Schemas returns the declared tool schemas for the reasoning backend.
func (d *Dispatcher) Schemas() []domain.ToolSchema {
	return d.registry.Schemas()
}

// Dispatch runs one tool call proposal through validation and execution.
// It always returns a result; failures are classified, never panicked or
// silently dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, req domain.ToolCallRequest) (result domain.ToolCallResult) {
	start := time.Now()
	defer func() {
		d.log.ToolDispatch(sessionID, req.Name, string(result.Status), float64(time.Since(start).Milliseconds()))
	}()

	result.Tool = req.Name

	tool, ok := d.registry.Get(req.Name)
	if !ok {
		result.Status = domain.StatusUnknownTool
		result.Diagnostic = fmt.Sprintf("no tool named %q is available", req.Name)
		return result
	}

	if diag := validateArgs(tool.Schema, req.Args); diag != "" {
		result.Status = domain.StatusInvalidArguments
		result.Diagnostic = diag
		return result
	}

	payload, err := d.invoke(ctx, tool, req.Args)
	if err != nil {
		switch apperr.GetKind(err) {
		case apperr.KindNotFound:
			result.Status = domain.StatusNotFound
			result.Diagnostic = apperr.Message(err)
		case apperr.KindValidation, apperr.KindBadRequest:
			result.Status = domain.StatusInvalidArguments
			result.Diagnostic = apperr.Message(err)
		default:
			d.log.Error("tool handler failed", "tool", req.Name, "error", err)
			result.Status = domain.StatusHandlerFailure
			result.Diagnostic = fmt.Sprintf("the %s tool failed internally; tell the customer a colleague will follow up", req.Name)
		}
		return result
	}

	result.Status = domain.StatusOK
	result.Payload = payload
	return result
}

// invoke runs the handler with panic containment. A panicking handler
// becomes an internal error scoped to this single dispatch.
func (d *Dispatcher) invoke(ctx context.Context, tool Tool, args map[string]any) (payload map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Internal(fmt.Sprintf("tool handler panic: %v", r))
		}
	}()
	return tool.Handler(ctx, args)
}

// validateArgs checks the proposal against the declared schema: required
// arguments must be present and every supplied argument must have the
// declared type. Undeclared extra arguments are ignored.
func validateArgs(schema domain.ToolSchema, args map[string]any) string {
	for _, spec := range schema.Args {
		value, present := args[spec.Name]
		if !present || value == nil {
			if spec.Required {
				return fmt.Sprintf("missing required argument %q", spec.Name)
			}
			continue
		}
		if !typeMatches(spec.Type, value) {
			return fmt.Sprintf("argument %q must be a %s", spec.Name, spec.Type)
		}
		if spec.Required {
			if s, ok := value.(string); ok && s == "" {
				return fmt.Sprintf("required argument %q must not be empty", spec.Name)
			}
		}
	}
	return ""
}

func typeMatches(t domain.ArgType, value any) bool {
	switch t {
	case domain.ArgString:
		_, ok := value.(string)
		return ok
	case domain.ArgNumber:
		switch value.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case domain.ArgBoolean:
		_, ok := value.(bool)
		return ok
	}
	return false
}
