package concierge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	catalogrepo "fixfurn_backend/internal/catalog/repository"
	catalogsvc "fixfurn_backend/internal/catalog/service"
	"fixfurn_backend/internal/concierge/domain"
	"fixfurn_backend/internal/events"
	"fixfurn_backend/internal/interactions"
	interactionsvc "fixfurn_backend/internal/interactions/service"
	repairsrepo "fixfurn_backend/internal/repairs/repository"
	repairsvc "fixfurn_backend/internal/repairs/service"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

const flowRules = `{
  "scratch": {
    "wood": {
      "medium": {"budget": [50, 85, 2, 5], "standard": [75, 115, 3, 6], "rush": [115, 170, 1, 2]}
    }
  }
}`

func flowProducts() []catalogrepo.Product {
	products := []catalogrepo.Product{
		{
			ID:         "FF-TBL-180",
			Name:       "Meridian Dining Table",
			Category:   "tables",
			Source:     catalogrepo.SourceHouseBrand,
			PriceUSD:   749,
			HasPrice:   true,
			Dimensions: catalogrepo.Dimensions{Width: 180, Height: 75, Depth: 90},
			Available:  true,
		},
		{
			ID:         "P-100",
			Name:       "GRANVIK Dining table",
			Category:   "tables",
			Source:     catalogrepo.SourcePartnerLine,
			PriceUSD:   26.67,
			HasPrice:   true,
			Dimensions: catalogrepo.Dimensions{Width: 179, Height: 74, Depth: 90},
			Available:  true,
		},
	}
	for i := range products {
		p := &products[i]
		p.SearchText = strings.ToLower(p.ID + " " + p.Name + " " + p.Category)
	}
	return products
}

// flowFixture wires the real domain services behind the real tool registry.
func flowFixture(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	log := logger.New("test")
	val := validator.New()
	bus := events.NewInMemoryBus(log)
	logDir := t.TempDir()

	interactionsModule, err := interactions.NewModule(logDir, bus, val, log)
	if err != nil {
		t.Fatalf("interactions module: %v", err)
	}
	interactionsModule.RegisterEventHandlers(bus)

	rulesRepo, err := repairsrepo.Parse([]byte(flowRules))
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}

	deps := ToolDependencies{
		Catalog:      catalogsvc.NewService(catalogrepo.New(flowProducts()), log),
		Repairs:      repairsvc.NewService(rulesRepo, bus, log),
		Interactions: interactionsModule.Service(),
	}
	return NewDispatcher(NewToolset(deps), log), logDir
}

func TestLookupProductToolReturnsOrderedResults(t *testing.T) {
	d, _ := flowFixture(t)

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "lookup_product",
		Args: map[string]any{"query": "dining table", "dimension": float64(180)},
	})
	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Diagnostic)
	}

	results, ok := result.Payload["results"].([]map[string]any)
	if !ok || len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", result.Payload["results"])
	}
	// House-brand exact 180 cm match outranks the partner 179 cm match.
	if results[0]["id"] != "FF-TBL-180" || results[1]["id"] != "P-100" {
		t.Errorf("unexpected ordering: %v, %v", results[0]["id"], results[1]["id"])
	}
}

func TestLookupProductToolMissIsOKWithMessage(t *testing.T) {
	d, _ := flowFixture(t)

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "lookup_product",
		Args: map[string]any{"query": "chandelier"},
	})
	if result.Status != domain.StatusOK {
		t.Fatalf("a catalog miss is not an error, got %s", result.Status)
	}
	if result.Payload["ok"] != false {
		t.Errorf("expected ok=false payload for a miss, got %v", result.Payload)
	}
}

func TestEstimateRepairToolHappyPath(t *testing.T) {
	d, _ := flowFixture(t)

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "estimate_repair",
		Args: map[string]any{"issue": "scratch", "material": "wood"},
	})
	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Diagnostic)
	}
	tiers, ok := result.Payload["tiers"].(map[string]any)
	if !ok {
		t.Fatalf("expected tiers in payload, got %v", result.Payload)
	}
	for _, name := range []string{"budget", "standard", "rush"} {
		if _, present := tiers[name]; !present {
			t.Errorf("missing tier %q", name)
		}
	}
}

func TestEstimateGapIsNotFoundAndLandsInFeedbackLog(t *testing.T) {
	d, logDir := flowFixture(t)

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "estimate_repair",
		Args: map[string]any{"issue": "water damage", "material": "fabric"},
	})
	if result.Status != domain.StatusNotFound {
		t.Fatalf("expected not_found, got %s", result.Status)
	}
	resp := result.Response()
	if resp["ok"] != false || resp["msg"] == "" {
		t.Errorf("gap must be surfaced to the model, got %v", resp)
	}

	// The gap event is delivered asynchronously; wait for the append.
	feedbackPath := filepath.Join(logDir, interactionsvc.FeedbackFile)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if data, err := os.ReadFile(feedbackPath); err == nil && strings.Contains(string(data), "water_damage") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("estimate gap never reached the feedback log")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRecordCustomerInterestToolAppendsLead(t *testing.T) {
	d, logDir := flowFixture(t)

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "record_customer_interest",
		Args: map[string]any{
			"name":    "Dana Reeves",
			"email":   "dana@example.com",
			"message": "buy a dining table",
		},
	})
	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Diagnostic)
	}

	data, err := os.ReadFile(filepath.Join(logDir, interactionsvc.LeadsFile))
	if err != nil {
		t.Fatalf("read leads file: %v", err)
	}
	if !strings.Contains(string(data), "dana@example.com") {
		t.Errorf("lead not appended: %s", data)
	}
}

func TestRecordCustomerInterestToolRejectsBadEmail(t *testing.T) {
	d, _ := flowFixture(t)

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "record_customer_interest",
		Args: map[string]any{
			"name":    "Dana Reeves",
			"email":   "not-an-email",
			"message": "buy",
		},
	})
	if result.Status != domain.StatusInvalidArguments {
		t.Fatalf("expected invalid_arguments, got %s", result.Status)
	}
}

func TestRecordServiceFeedbackTool(t *testing.T) {
	d, logDir := flowFixture(t)

	result := d.Dispatch(context.Background(), "s1", domain.ToolCallRequest{
		Name: "record_service_feedback",
		Args: map[string]any{
			"email":        "omar@example.com",
			"name":         "Omar Haddad",
			"service_type": "repair",
			"satisfaction": "very satisfied",
		},
	})
	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Diagnostic)
	}

	data, err := os.ReadFile(filepath.Join(logDir, interactionsvc.ServiceFeedbackFile))
	if err != nil {
		t.Fatalf("read service feedback file: %v", err)
	}
	if !strings.Contains(string(data), "omar@example.com") {
		t.Errorf("feedback not appended: %s", data)
	}
}

// TestScriptedConversationWithRealTools runs a full orchestrated turn: the
// scripted model asks for a catalog lookup, then answers from the result.
func TestScriptedConversationWithRealTools(t *testing.T) {
	d, _ := flowFixture(t)

	model := &scriptedModel{turns: []domain.ModelTurn{
		{ToolCalls: []domain.ToolCallRequest{{
			Name: "lookup_product",
			Args: map[string]any{"query": "dining table", "dimension": float64(180)},
		}}},
		{Text: "The Meridian Dining Table is 180 cm wide and costs $749."},
	}}
	orch := NewOrchestrator(model, d, Persona{SystemPrompt: "test"}, Config{}, logger.New("test"))

	reply, err := orch.HandleUserMessage(context.Background(), "s1", "do you have a dining table around 180 cm?")
	if err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}
	if !strings.Contains(reply, "Meridian") {
		t.Errorf("unexpected reply: %q", reply)
	}
}
