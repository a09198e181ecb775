// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"fixfurn_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Interaction Domain Events
// =============================================================================

// LeadCaptured is published after a customer lead has been appended to the
// interaction log.
type LeadCaptured struct {
	BaseEvent
	Name   string `json:"name"`
	Email  string `json:"email"`
	Intent string `json:"intent"`
}

func (e LeadCaptured) EventName() string { return "interactions.lead.captured" }

// QuestionUnresolved is published when the assistant could not answer a
// customer request, including repair estimates with no rule coverage.
type QuestionUnresolved struct {
	BaseEvent
	Question string `json:"question"`
	Source   string `json:"source"` // "estimate_gap" or "assistant"
}

func (e QuestionUnresolved) EventName() string { return "interactions.question.unresolved" }

// ServiceFeedbackReceived is published after post-service feedback has been
// appended to the interaction log.
type ServiceFeedbackReceived struct {
	BaseEvent
	Email        string `json:"email"`
	ServiceType  string `json:"serviceType"`
	Satisfaction string `json:"satisfaction"`
}

func (e ServiceFeedbackReceived) EventName() string { return "interactions.service_feedback.received" }
