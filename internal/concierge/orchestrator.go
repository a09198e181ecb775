package concierge

import (
	"context"
	"strings"
	"sync"
	"time"

	"fixfurn_backend/internal/concierge/domain"
	"fixfurn_backend/platform/apperr"
	"fixfurn_backend/platform/logger"
)

// fallbackReply is used when the loop must stop without usable model text.
// The customer always gets a sentence, never an empty body.
const fallbackReply = "I wasn't able to finish that request just now. Could you rephrase it, or leave your email so a colleague can follow up?"

// Config bounds the orchestrator's reasoning loop.
type Config struct {
	// MaxToolIterations is the number of tool rounds allowed per user
	// message before the loop is cut off with a partial reply.
	MaxToolIterations int
	// BackendTimeout bounds each individual reasoning call.
	BackendTimeout time.Duration
}

// session serializes turns within one conversation. Concurrent requests for
// the same session queue; different sessions never contend.
type session struct {
	mu   sync.Mutex
	conv *domain.Conversation
}

// Orchestrator drives the reasoning loop: user message in, tool proposals
// dispatched and fed back, final text out.
type Orchestrator struct {
	model      domain.ReasoningModel
	dispatcher *Dispatcher
	persona    Persona
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewOrchestrator(model domain.ReasoningModel, dispatcher *Dispatcher, persona Persona, cfg Config, log *logger.Logger) *Orchestrator {
	if cfg.MaxToolIterations < 1 {
		cfg.MaxToolIterations = 8
	}
	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = 30 * time.Second
	}
	return &Orchestrator{
		model:      model,
		dispatcher: dispatcher,
		persona:    persona,
		config:     cfg,
		log:        log,
		sessions:   make(map[string]*session),
	}
}

// HandleUserMessage appends the message to the session's conversation and
// runs the reasoning loop until the model answers in text, the tool-round
// bound is hit, or the backend fails. The returned reply is never empty on
// success.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, sessionID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.BadRequest("message must not be empty")
	}
	if sessionID == "" {
		return "", apperr.BadRequest("session id must not be empty")
	}

	sess := o.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.conv.Append(domain.Turn{Role: domain.RoleUser, Text: message})

	toolRounds := 0
	for iteration := 0; ; iteration++ {
		turn, err := o.reason(ctx, sessionID, iteration, sess.conv)
		if err != nil {
			// The turn fails but the session survives: history up to and
			// including any dispatched tool results stays intact for the
			// customer's next message.
			return "", err
		}
		sess.conv.Append(domain.Turn{Role: domain.RoleModel, Text: turn.Text, ToolCalls: turn.ToolCalls})

		if !turn.HasToolCalls() {
			reply := strings.TrimSpace(turn.Text)
			if reply == "" {
				reply = fallbackReply
			}
			return reply, nil
		}

		if toolRounds >= o.config.MaxToolIterations {
			o.log.Warn("tool loop bound exceeded, returning partial reply",
				"session_id", sessionID,
				"max_tool_iterations", o.config.MaxToolIterations)
			return o.partialReply(sess.conv), nil
		}
		toolRounds++

		results := make([]domain.ToolCallResult, 0, len(turn.ToolCalls))
		for _, call := range turn.ToolCalls {
			results = append(results, o.dispatcher.Dispatch(ctx, sessionID, call))
		}
		sess.conv.Append(domain.Turn{Role: domain.RoleTool, ToolResults: results})
	}
}

// SessionCount reports the number of live sessions.
func (o *Orchestrator) SessionCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sessions)
}

// EndSession drops a session's history. Unknown ids are a no-op.
func (o *Orchestrator) EndSession(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, sessionID)
}

func (o *Orchestrator) session(id string) *session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		s = &session{conv: &domain.Conversation{ID: id}}
		o.sessions[id] = s
	}
	return s
}

// reason makes one bounded reasoning call.
func (o *Orchestrator) reason(ctx context.Context, sessionID string, iteration int, conv *domain.Conversation) (domain.ModelTurn, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.config.BackendTimeout)
	defer cancel()

	start := time.Now()
	turn, err := o.model.Propose(callCtx, o.persona.Instruction(), conv, o.dispatcher.Schemas())
	o.log.BackendCall(sessionID, iteration, float64(time.Since(start).Milliseconds()), err)
	if err != nil {
		switch apperr.GetKind(err) {
		case apperr.KindTimeout, apperr.KindUnavailable:
			return domain.ModelTurn{}, err
		}
		return domain.ModelTurn{}, apperr.Wrap(apperr.KindUnavailable, "reasoning backend failed", err)
	}
	return turn, nil
}

// partialReply salvages the best available text when the loop is cut off.
func (o *Orchestrator) partialReply(conv *domain.Conversation) string {
	if text := strings.TrimSpace(conv.LastModelText()); text != "" {
		return text
	}
	return fallbackReply
}
