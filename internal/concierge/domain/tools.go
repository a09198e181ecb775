package domain

// ArgType enumerates the primitive argument types tool schemas accept.
// Tool arguments are a fixed, statically declared set; the dispatcher never
// introspects arbitrary payload shapes.
type ArgType string

const (
	ArgString  ArgType = "string"
	ArgNumber  ArgType = "number"
	ArgBoolean ArgType = "boolean"
)

// ArgSpec declares a single tool argument.
type ArgSpec struct {
	Name        string
	Type        ArgType
	Description string
	Required    bool
}

// ToolSchema declares a callable tool: its name and argument contract.
// Schemas are sent to the reasoning backend verbatim so proposals can be
// validated against the same declaration they were generated from.
type ToolSchema struct {
	Name        string
	Description string
	Args        []ArgSpec
}

// ToolCallRequest is a tool invocation proposed by the reasoning backend.
// Transient; one per dispatch cycle.
type ToolCallRequest struct {
	Name string
	Args map[string]any
}

// DispatchStatus classifies the outcome of a single tool dispatch.
type DispatchStatus string

const (
	// StatusOK means the handler ran and produced a payload.
	StatusOK DispatchStatus = "ok"
	// StatusInvalidArguments means validation failed; the handler never ran.
	StatusInvalidArguments DispatchStatus = "invalid_arguments"
	// StatusUnknownTool means no tool is registered under the requested name.
	StatusUnknownTool DispatchStatus = "unknown_tool"
	// StatusNotFound means the handler ran but the lookup had no coverage
	// (e.g. a repair rule gap). Surfaced, never silently defaulted.
	StatusNotFound DispatchStatus = "not_found"
	// StatusHandlerFailure means the handler faulted; the fault was caught
	// at the dispatch boundary and converted to a safe diagnostic.
	StatusHandlerFailure DispatchStatus = "handler_failure"
)

// ToolCallResult is the outcome of one dispatch cycle, fed back to the
// reasoning backend as the next step's input.
type ToolCallResult struct {
	Tool       string
	Status     DispatchStatus
	Payload    map[string]any
	Diagnostic string
}

// OK reports whether the dispatch succeeded.
func (r ToolCallResult) OK() bool {
	return r.Status == StatusOK
}

// Response shapes the result the way the reasoning backend expects:
// the handler payload on success, or {ok:false, status, msg} on failure so
// the model can phrase the outcome instead of crashing the turn.
func (r ToolCallResult) Response() map[string]any {
	if r.OK() {
		return r.Payload
	}
	return map[string]any{
		"ok":     false,
		"status": string(r.Status),
		"msg":    r.Diagnostic,
	}
}
