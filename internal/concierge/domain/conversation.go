// Package domain holds the conversation and tool-call types shared by the
// concierge orchestrator, dispatcher, and reasoning backend adapters.
package domain

// Role identifies who produced a conversation turn.
type Role string

const (
	// RoleUser is a turn written by the customer.
	RoleUser Role = "user"
	// RoleModel is a turn produced by the reasoning backend (text and/or
	// tool-call proposals).
	RoleModel Role = "model"
	// RoleTool is a turn carrying resolved tool results back to the model.
	RoleTool Role = "tool"
)

// Turn is one entry in a conversation. Exactly one of Text/ToolCalls/
// ToolResults is meaningful depending on Role; model turns may carry both
// text and proposals.
type Turn struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCallRequest
	ToolResults []ToolCallResult
}

// Conversation is the ordered, append-only turn sequence for one session.
// It is owned exclusively by the orchestrator for the session's lifetime and
// is never persisted across sessions.
type Conversation struct {
	ID    string
	Turns []Turn
}

// Append adds a turn to the end of the conversation.
func (c *Conversation) Append(t Turn) {
	c.Turns = append(c.Turns, t)
}

// LastModelText returns the text of the most recent model turn, if any.
// Used to build a partial reply when the tool loop bound is exceeded.
func (c *Conversation) LastModelText() string {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleModel && c.Turns[i].Text != "" {
			return c.Turns[i].Text
		}
	}
	return ""
}
