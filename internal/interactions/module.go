// Package interactions wires the interaction log sink and its recording
// service. The module is not HTTP-facing; records arrive through the
// concierge tool layer and through domain events.
package interactions

import (
	"context"

	"fixfurn_backend/internal/events"
	"fixfurn_backend/internal/interactions/repository"
	"fixfurn_backend/internal/interactions/service"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

type Module struct {
	service *service.Service
	log     *logger.Logger
}

func NewModule(logDir string, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	sink, err := repository.NewSink(logDir)
	if err != nil {
		return nil, err
	}
	return &Module{
		service: service.NewService(sink, bus, val, log),
		log:     log,
	}, nil
}

func (m *Module) Name() string { return "interactions" }

// Service exposes interaction recording to the concierge tool layer.
func (m *Module) Service() *service.Service { return m.service }

// RegisterEventHandlers subscribes the module to the events it persists.
// Unresolved questions from anywhere in the system land in the feedback log.
func (m *Module) RegisterEventHandlers(bus events.Bus) {
	bus.Subscribe(events.QuestionUnresolved{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			unresolved, ok := event.(events.QuestionUnresolved)
			if !ok {
				return nil
			}
			_, err := m.service.RecordQuestion(ctx, unresolved.Question, unresolved.Source)
			return err
		}))
}
