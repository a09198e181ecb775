package domain

import "context"

// ModelTurn is the reasoning backend's answer for one reasoning step:
// free text, zero or more tool-call proposals, or both.
type ModelTurn struct {
	Text      string
	ToolCalls []ToolCallRequest
}

// HasToolCalls reports whether the backend proposed further tool calls.
func (t ModelTurn) HasToolCalls() bool {
	return len(t.ToolCalls) > 0
}

// ReasoningModel is the opaque reasoning backend boundary. The orchestrator
// sends the full turn history plus the declared tool schemas and receives
// either a free-text reply or structured tool-call proposals. The backend's
// own wire protocol is not part of this core.
type ReasoningModel interface {
	Propose(ctx context.Context, systemPrompt string, conv *Conversation, tools []ToolSchema) (ModelTurn, error)
}
