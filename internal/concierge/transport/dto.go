// Package transport defines the concierge module's request and response DTOs.
package transport

// ChatRequest is the body of POST /chat. SessionID is optional; when absent
// the server opens a new session and returns its id.
type ChatRequest struct {
	SessionID string `json:"sessionId" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required,max=4000"`
}

// ChatResponse is the body of a successful chat turn.
type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}
