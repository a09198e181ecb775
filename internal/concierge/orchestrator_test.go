package concierge

import (
	"context"
	"sync"
	"testing"
	"time"

	"fixfurn_backend/internal/concierge/domain"
	"fixfurn_backend/platform/apperr"
	"fixfurn_backend/platform/logger"
)

// scriptedModel replays a fixed sequence of turns. When the script runs out
// it keeps returning the last turn.
type scriptedModel struct {
	mu    sync.Mutex
	turns []domain.ModelTurn
	errs  []error
	calls int
	// seen captures the conversation length at each call for assertions.
	seen []int
}

func (m *scriptedModel) Propose(ctx context.Context, systemPrompt string, conv *domain.Conversation, tools []domain.ToolSchema) (domain.ModelTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	m.seen = append(m.seen, len(conv.Turns))

	if i < len(m.errs) && m.errs[i] != nil {
		return domain.ModelTurn{}, m.errs[i]
	}
	if len(m.turns) == 0 {
		return domain.ModelTurn{}, nil
	}
	if i >= len(m.turns) {
		i = len(m.turns) - 1
	}
	return m.turns[i], nil
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func emptyDispatcher() *Dispatcher {
	return NewDispatcher(NewRegistry(), logger.New("test"))
}

func countingDispatcher(t *testing.T, counter *int) *Dispatcher {
	t.Helper()
	registry := NewRegistry()
	registry.Register(Tool{
		Schema: domain.ToolSchema{Name: "ping"},
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			*counter++
			return map[string]any{"ok": true}, nil
		},
	})
	return NewDispatcher(registry, logger.New("test"))
}

func newOrchestrator(model domain.ReasoningModel, dispatcher *Dispatcher, cfg Config) *Orchestrator {
	persona := Persona{SystemPrompt: "You are a test assistant."}
	return NewOrchestrator(model, dispatcher, persona, cfg, logger.New("test"))
}

func TestTextOnlyReply(t *testing.T) {
	model := &scriptedModel{turns: []domain.ModelTurn{{Text: "Hello! How can I help?"}}}
	orch := newOrchestrator(model, emptyDispatcher(), Config{})

	reply, err := orch.HandleUserMessage(context.Background(), "s1", "hi")
	if err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}
	if reply != "Hello! How can I help?" {
		t.Errorf("unexpected reply: %q", reply)
	}
	if model.callCount() != 1 {
		t.Errorf("expected 1 backend call, got %d", model.callCount())
	}
}

func TestToolRoundThenReply(t *testing.T) {
	var dispatched int
	model := &scriptedModel{turns: []domain.ModelTurn{
		{ToolCalls: []domain.ToolCallRequest{{Name: "ping"}}},
		{Text: "Done."},
	}}
	orch := newOrchestrator(model, countingDispatcher(t, &dispatched), Config{})

	reply, err := orch.HandleUserMessage(context.Background(), "s1", "do the thing")
	if err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}
	if reply != "Done." {
		t.Errorf("unexpected reply: %q", reply)
	}
	if dispatched != 1 {
		t.Errorf("expected 1 dispatch, got %d", dispatched)
	}
	// Second call must see the tool-result turn appended to the history.
	if len(model.seen) != 2 || model.seen[1] != model.seen[0]+2 {
		t.Errorf("expected model+tool turns fed back, seen=%v", model.seen)
	}
}

func TestLoopBoundReturnsNonEmptyPartialReply(t *testing.T) {
	var dispatched int
	// The model never stops proposing tool calls.
	model := &scriptedModel{turns: []domain.ModelTurn{
		{ToolCalls: []domain.ToolCallRequest{{Name: "ping"}}},
	}}
	orch := newOrchestrator(model, countingDispatcher(t, &dispatched), Config{MaxToolIterations: 3})

	reply, err := orch.HandleUserMessage(context.Background(), "s1", "loop forever")
	if err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}
	if reply == "" {
		t.Fatal("partial reply must not be empty")
	}
	if dispatched != 3 {
		t.Errorf("expected exactly 3 tool rounds, got %d", dispatched)
	}
}

func TestLoopBoundPartialReplyUsesLastModelText(t *testing.T) {
	model := &scriptedModel{turns: []domain.ModelTurn{
		{Text: "Checking the catalog now.", ToolCalls: []domain.ToolCallRequest{{Name: "ping"}}},
	}}
	var dispatched int
	orch := newOrchestrator(model, countingDispatcher(t, &dispatched), Config{MaxToolIterations: 1})

	reply, err := orch.HandleUserMessage(context.Background(), "s1", "go")
	if err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}
	if reply != "Checking the catalog now." {
		t.Errorf("expected last model text as partial reply, got %q", reply)
	}
}

func TestBackendFailureFailsTurnButKeepsSession(t *testing.T) {
	model := &scriptedModel{
		turns: []domain.ModelTurn{{}, {Text: "Recovered."}},
		errs:  []error{apperr.Unavailable("backend down"), nil},
	}
	orch := newOrchestrator(model, emptyDispatcher(), Config{})

	_, err := orch.HandleUserMessage(context.Background(), "s1", "first")
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}

	reply, err := orch.HandleUserMessage(context.Background(), "s1", "second")
	if err != nil {
		t.Fatalf("second turn should work: %v", err)
	}
	if reply != "Recovered." {
		t.Errorf("unexpected reply: %q", reply)
	}
	// The failed turn's user message stays in the history.
	if model.seen[1] <= model.seen[0] {
		t.Errorf("expected history to grow across the failed turn, seen=%v", model.seen)
	}
}

func TestEmptyModelTextFallsBackToFixedReply(t *testing.T) {
	model := &scriptedModel{turns: []domain.ModelTurn{{}}}
	orch := newOrchestrator(model, emptyDispatcher(), Config{})

	reply, err := orch.HandleUserMessage(context.Background(), "s1", "hi")
	if err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}
	if reply == "" {
		t.Fatal("reply must never be empty")
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	orch := newOrchestrator(&scriptedModel{}, emptyDispatcher(), Config{})

	_, err := orch.HandleUserMessage(context.Background(), "s1", "   ")
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	model := &scriptedModel{turns: []domain.ModelTurn{{Text: "ok"}}}
	orch := newOrchestrator(model, emptyDispatcher(), Config{})

	if _, err := orch.HandleUserMessage(context.Background(), "a", "hi"); err != nil {
		t.Fatalf("session a: %v", err)
	}
	if _, err := orch.HandleUserMessage(context.Background(), "b", "hi"); err != nil {
		t.Fatalf("session b: %v", err)
	}
	if orch.SessionCount() != 2 {
		t.Errorf("expected 2 sessions, got %d", orch.SessionCount())
	}

	// Session b's first call must not see session a's turns.
	if model.seen[1] != model.seen[0] {
		t.Errorf("sessions must not share history, seen=%v", model.seen)
	}

	orch.EndSession("a")
	if orch.SessionCount() != 1 {
		t.Errorf("expected 1 session after EndSession, got %d", orch.SessionCount())
	}
}

func TestConcurrentMessagesSameSessionSerialize(t *testing.T) {
	model := &scriptedModel{turns: []domain.ModelTurn{{Text: "ok"}}}
	orch := newOrchestrator(model, emptyDispatcher(), Config{BackendTimeout: time.Second})

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := orch.HandleUserMessage(context.Background(), "shared", "hi"); err != nil {
				t.Errorf("HandleUserMessage: %v", err)
			}
		}()
	}
	wg.Wait()

	// Each turn appends a user and a model turn; serialized access means
	// every call saw a consistent, strictly growing history.
	if model.callCount() != n {
		t.Errorf("expected %d backend calls, got %d", n, model.callCount())
	}
}
