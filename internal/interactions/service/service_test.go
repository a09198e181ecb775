package service

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"fixfurn_backend/internal/events"
	"fixfurn_backend/internal/interactions/repository"
	"fixfurn_backend/platform/apperr"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func newTestService(t *testing.T) (*Service, *recordingBus, string) {
	t.Helper()
	dir := t.TempDir()
	sink, err := repository.NewSink(dir)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	bus := &recordingBus{}
	return NewService(sink, bus, validator.New(), logger.New("test")), bus, dir
}

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("parse line: %v", err)
		}
		records = append(records, record)
	}
	return records
}

func TestRecordLeadAppendsAllRequiredFields(t *testing.T) {
	svc, bus, dir := newTestService(t)

	lead, err := svc.RecordLead(context.Background(), LeadParams{
		Name:   "Dana Reeves",
		Email:  "dana@example.com",
		Intent: "buy a dining table",
		Phone:  "055 123 4567",
	})
	if err != nil {
		t.Fatalf("RecordLead: %v", err)
	}
	if lead.Timestamp.IsZero() {
		t.Error("expected a timestamp on the lead")
	}
	if lead.Phone != "+966551234567" {
		t.Errorf("expected E.164 phone, got %q", lead.Phone)
	}

	records := readRecords(t, filepath.Join(dir, LeadsFile))
	if len(records) != 1 {
		t.Fatalf("expected 1 lead record, got %d", len(records))
	}
	for _, field := range []string{"ts", "name", "email", "intent", "note"} {
		if _, ok := records[0][field]; !ok {
			t.Errorf("lead record missing field %q", field)
		}
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if len(bus.events) != 1 {
		t.Fatalf("expected LeadCaptured published, got %d events", len(bus.events))
	}
	if _, ok := bus.events[0].(events.LeadCaptured); !ok {
		t.Errorf("expected LeadCaptured, got %T", bus.events[0])
	}
}

func TestRecordLeadRejectsInvalidEmail(t *testing.T) {
	svc, _, dir := newTestService(t)

	_, err := svc.RecordLead(context.Background(), LeadParams{
		Name:   "Dana Reeves",
		Email:  "not-an-email",
		Intent: "buy",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, LeadsFile)); !os.IsNotExist(statErr) {
		t.Error("rejected lead must not be appended")
	}
}

func TestRecordLeadRequiresNameAndIntent(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.RecordLead(context.Background(), LeadParams{Email: "a@b.com", Intent: "buy"}); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("expected validation error for missing name, got %v", err)
	}
	if _, err := svc.RecordLead(context.Background(), LeadParams{Name: "A", Email: "a@b.com"}); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("expected validation error for missing intent, got %v", err)
	}
}

func TestRecordQuestionDefaultsSource(t *testing.T) {
	svc, _, dir := newTestService(t)

	record, err := svc.RecordQuestion(context.Background(), "do you restore antique clocks?", "")
	if err != nil {
		t.Fatalf("RecordQuestion: %v", err)
	}
	if record.Source != "assistant" {
		t.Errorf("expected assistant default source, got %q", record.Source)
	}

	records := readRecords(t, filepath.Join(dir, FeedbackFile))
	if len(records) != 1 {
		t.Fatalf("expected 1 feedback record, got %d", len(records))
	}
}

func TestRecordServiceFeedback(t *testing.T) {
	svc, bus, dir := newTestService(t)

	_, err := svc.RecordServiceFeedback(context.Background(), ServiceFeedbackParams{
		Name:         "Omar Haddad",
		Email:        "omar@example.com",
		ServiceType:  "repair",
		Satisfaction: "satisfied",
		Comments:     "table looks new again",
	})
	if err != nil {
		t.Fatalf("RecordServiceFeedback: %v", err)
	}

	records := readRecords(t, filepath.Join(dir, ServiceFeedbackFile))
	if len(records) != 1 {
		t.Fatalf("expected 1 service feedback record, got %d", len(records))
	}
	if records[0]["serviceType"] != "repair" {
		t.Errorf("unexpected serviceType: %v", records[0]["serviceType"])
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if len(bus.events) != 1 {
		t.Fatalf("expected ServiceFeedbackReceived published, got %d events", len(bus.events))
	}
}

func TestRecordServiceFeedbackRequiresSatisfaction(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RecordServiceFeedback(context.Background(), ServiceFeedbackParams{
		Name:        "Omar Haddad",
		Email:       "omar@example.com",
		ServiceType: "repair",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
