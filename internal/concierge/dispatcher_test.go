package concierge

import (
	"context"
	"testing"

	"fixfurn_backend/internal/concierge/domain"
	"fixfurn_backend/platform/apperr"
	"fixfurn_backend/platform/logger"
)

func testDispatcher() *Dispatcher {
	registry := NewRegistry()

	registry.Register(Tool{
		Schema: domain.ToolSchema{
			Name: "echo",
			Args: []domain.ArgSpec{
				{Name: "text", Type: domain.ArgString, Required: true},
				{Name: "count", Type: domain.ArgNumber},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{"ok": true, "echo": args["text"]}, nil
		},
	})

	registry.Register(Tool{
		Schema: domain.ToolSchema{
			Name: "lookup_missing",
			Args: []domain.ArgSpec{{Name: "key", Type: domain.ArgString, Required: true}},
		},
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return nil, apperr.NotFound("no rule covers that key")
		},
	})

	registry.Register(Tool{
		Schema: domain.ToolSchema{Name: "panics"},
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			panic("boom")
		},
	})

	registry.Register(Tool{
		Schema: domain.ToolSchema{Name: "faults"},
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return nil, apperr.Internal("disk on fire")
		},
	})

	return NewDispatcher(registry, logger.New("test"))
}

func TestDispatchOK(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "echo",
		Args: map[string]any{"text": "hello"},
	})
	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Diagnostic)
	}
	if result.Payload["echo"] != "hello" {
		t.Errorf("unexpected payload: %v", result.Payload)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{Name: "no_such_tool"})
	if result.Status != domain.StatusUnknownTool {
		t.Fatalf("expected unknown_tool, got %s", result.Status)
	}
	if result.Diagnostic == "" {
		t.Error("expected a diagnostic message")
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "echo",
		Args: map[string]any{},
	})
	if result.Status != domain.StatusInvalidArguments {
		t.Fatalf("expected invalid_arguments, got %s", result.Status)
	}
}

func TestDispatchWrongArgumentType(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "echo",
		Args: map[string]any{"text": "hi", "count": "three"},
	})
	if result.Status != domain.StatusInvalidArguments {
		t.Fatalf("expected invalid_arguments for wrong type, got %s", result.Status)
	}
}

func TestDispatchEmptyRequiredStringIsInvalid(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "echo",
		Args: map[string]any{"text": ""},
	})
	if result.Status != domain.StatusInvalidArguments {
		t.Fatalf("expected invalid_arguments for empty required string, got %s", result.Status)
	}
}

func TestDispatchIgnoresUndeclaredArguments(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "echo",
		Args: map[string]any{"text": "hi", "stray": 42},
	})
	if result.Status != domain.StatusOK {
		t.Fatalf("stray arguments must be tolerated, got %s", result.Status)
	}
}

func TestDispatchNotFoundFromHandler(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "lookup_missing",
		Args: map[string]any{"key": "x"},
	})
	if result.Status != domain.StatusNotFound {
		t.Fatalf("expected not_found, got %s", result.Status)
	}
	if result.Diagnostic != "no rule covers that key" {
		t.Errorf("expected the handler's message, got %q", result.Diagnostic)
	}
}

func TestDispatchPanicBecomesHandlerFailure(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{Name: "panics"})
	if result.Status != domain.StatusHandlerFailure {
		t.Fatalf("expected handler_failure, got %s", result.Status)
	}
	if result.Diagnostic == "" {
		t.Error("expected a safe diagnostic")
	}
}

func TestDispatchInternalErrorBecomesHandlerFailure(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{Name: "faults"})
	if result.Status != domain.StatusHandlerFailure {
		t.Fatalf("expected handler_failure, got %s", result.Status)
	}
	// The raw error text stays out of the model-facing diagnostic.
	if result.Diagnostic == "disk on fire" {
		t.Error("internal error detail must not leak into the diagnostic")
	}
}

func TestFailureResponseShape(t *testing.T) {
	d := testDispatcher()

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{Name: "no_such_tool"})
	resp := result.Response()
	if resp["ok"] != false {
		t.Errorf("expected ok=false, got %v", resp["ok"])
	}
	if resp["status"] != string(domain.StatusUnknownTool) {
		t.Errorf("expected status in response, got %v", resp["status"])
	}
	if resp["msg"] == "" {
		t.Error("expected msg in response")
	}
}
