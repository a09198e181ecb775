// Package service records customer interactions: sales leads, unanswered
// questions and post-service feedback.
package service

import (
	"context"
	"strings"
	"time"

	"fixfurn_backend/internal/events"
	"fixfurn_backend/internal/interactions/repository"
	"fixfurn_backend/platform/apperr"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/phone"
	"fixfurn_backend/platform/validator"
)

// Per-kind JSONL files under the sink directory.
const (
	LeadsFile           = "leads.jsonl"
	FeedbackFile        = "feedback.jsonl"
	ServiceFeedbackFile = "service_feedback.jsonl"
)

// Lead is one captured sales lead. All four identity fields are always
// serialized; Note may be empty but is never omitted.
type Lead struct {
	Timestamp time.Time `json:"ts"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Intent    string    `json:"intent"`
	Note      string    `json:"note"`
	Phone     string    `json:"phone,omitempty"`
}

// FeedbackQuestion is one request the assistant could not answer.
type FeedbackQuestion struct {
	Timestamp time.Time `json:"ts"`
	Question  string    `json:"question"`
	Source    string    `json:"source"`
}

// ServiceFeedback is one post-service satisfaction record.
type ServiceFeedback struct {
	Timestamp    time.Time `json:"ts"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ServiceType  string    `json:"serviceType"`
	Satisfaction string    `json:"satisfaction"`
	Comments     string    `json:"comments,omitempty"`
}

// LeadParams are the caller-supplied lead fields.
type LeadParams struct {
	Name   string
	Email  string
	Intent string
	Note   string
	Phone  string
}

// ServiceFeedbackParams are the caller-supplied feedback fields.
type ServiceFeedbackParams struct {
	Name         string
	Email        string
	ServiceType  string
	Satisfaction string
	Comments     string
}

type Service struct {
	sink      *repository.Sink
	bus       events.Bus
	validator *validator.Validator
	log       *logger.Logger

	now func() time.Time
}

func NewService(sink *repository.Sink, bus events.Bus, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		sink:      sink,
		bus:       bus,
		validator: val,
		log:       log,
		now:       time.Now,
	}
}

// RecordLead validates, timestamps and durably appends a sales lead, then
// publishes LeadCaptured.
func (s *Service) RecordLead(ctx context.Context, p LeadParams) (Lead, error) {
	lead := Lead{
		Timestamp: s.now().UTC(),
		Name:      strings.TrimSpace(p.Name),
		Email:     strings.TrimSpace(p.Email),
		Intent:    strings.TrimSpace(p.Intent),
		Note:      strings.TrimSpace(p.Note),
		Phone:     phone.NormalizeE164(p.Phone),
	}

	if lead.Name == "" {
		return Lead{}, apperr.Validation("lead name is required")
	}
	if lead.Intent == "" {
		return Lead{}, apperr.Validation("lead intent is required")
	}
	if err := s.validator.Var(lead.Email, "required,email"); err != nil {
		return Lead{}, apperr.Validation("a valid email address is required")
	}

	if err := s.sink.Append(LeadsFile, lead); err != nil {
		return Lead{}, apperr.Wrap(apperr.KindInternal, "failed to record lead", err)
	}
	s.log.InteractionRecorded("lead", LeadsFile)

	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		Name:      lead.Name,
		Email:     lead.Email,
		Intent:    lead.Intent,
	})
	return lead, nil
}

// RecordQuestion durably appends an unanswered question so the owner can
// review coverage gaps.
func (s *Service) RecordQuestion(ctx context.Context, question, source string) (FeedbackQuestion, error) {
	record := FeedbackQuestion{
		Timestamp: s.now().UTC(),
		Question:  strings.TrimSpace(question),
		Source:    strings.TrimSpace(source),
	}
	if record.Question == "" {
		return FeedbackQuestion{}, apperr.Validation("question is required")
	}
	if record.Source == "" {
		record.Source = "assistant"
	}

	if err := s.sink.Append(FeedbackFile, record); err != nil {
		return FeedbackQuestion{}, apperr.Wrap(apperr.KindInternal, "failed to record question", err)
	}
	s.log.InteractionRecorded("question", FeedbackFile)
	return record, nil
}

// RecordServiceFeedback validates, timestamps and durably appends
// post-service feedback, then publishes ServiceFeedbackReceived.
func (s *Service) RecordServiceFeedback(ctx context.Context, p ServiceFeedbackParams) (ServiceFeedback, error) {
	record := ServiceFeedback{
		Timestamp:    s.now().UTC(),
		Name:         strings.TrimSpace(p.Name),
		Email:        strings.TrimSpace(p.Email),
		ServiceType:  strings.TrimSpace(p.ServiceType),
		Satisfaction: strings.TrimSpace(p.Satisfaction),
		Comments:     strings.TrimSpace(p.Comments),
	}

	if record.Name == "" {
		return ServiceFeedback{}, apperr.Validation("name is required")
	}
	if record.ServiceType == "" {
		return ServiceFeedback{}, apperr.Validation("service type is required")
	}
	if record.Satisfaction == "" {
		return ServiceFeedback{}, apperr.Validation("satisfaction is required")
	}
	if err := s.validator.Var(record.Email, "required,email"); err != nil {
		return ServiceFeedback{}, apperr.Validation("a valid email address is required")
	}

	if err := s.sink.Append(ServiceFeedbackFile, record); err != nil {
		return ServiceFeedback{}, apperr.Wrap(apperr.KindInternal, "failed to record service feedback", err)
	}
	s.log.InteractionRecorded("service_feedback", ServiceFeedbackFile)

	s.bus.Publish(ctx, events.ServiceFeedbackReceived{
		BaseEvent:    events.NewBaseEvent(),
		Email:        record.Email,
		ServiceType:  record.ServiceType,
		Satisfaction: record.Satisfaction,
	})
	return record, nil
}
