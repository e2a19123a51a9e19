package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/envops/incidentd/internal/incident"
	"github.com/envops/incidentd/internal/llm"
)

// scriptedProvider replays a fixed sequence of completion responses.
type scriptedProvider struct {
	responses []*llm.CompletionResponse
	errs      []error
	calls     int
	requests  []llm.CompletionRequest
}

func (p *scriptedProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.requests = append(p.requests, req)
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	// Past the script: keep acting so cap behavior can be observed.
	return &llm.CompletionResponse{
		ToolCalls: []llm.ToolCall{{
			ID:        "call_loop",
			Name:      "calculate_population_impact",
			Arguments: `{"facility_id":"Atlanta_WTP"}`,
		}},
	}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func testIncident() incident.Incident {
	return incident.Incident{
		ID:         "INC-2024-11-08-001",
		Type:       incident.CategoryWaterContamination,
		FacilityID: "Atlanta_WTP",
		SensorData: map[string]float64{"ecoli": 5, "ph": 7.8, "turbidity": 1.2},
		Context:    incident.ContextField{Text: "heavy rain yesterday"},
		Urgency:    "HIGH",
	}
}

func TestAnalyzeToolLoopThenAnswer(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.CompletionResponse{
			{
				ToolCalls: []llm.ToolCall{{
					ID:        "call_1",
					Name:      "analyze_sensor_data",
					Arguments: `{"sensor_data":{"ecoli":5,"ph":7.8,"turbidity":1.2}}`,
				}},
			},
			{
				ToolCalls: []llm.ToolCall{{
					ID:        "call_2",
					Name:      "evaluate_response_options",
					Arguments: `{"incident_type":"WATER_CONTAMINATION"}`,
				}},
			},
			{
				Content: `{"action":"CHLORINE_BOOST","urgency":"CRITICAL","confidence":0.88,"reasoning":"E.coli violation after heavy rain","fallback_plan":"Boil water advisory"}`,
			},
		},
	}
	engine := NewEngine(provider, "gpt-4o", 0.2)

	result := engine.Analyze(context.Background(), testIncident())
	if result.Status != "success" {
		t.Fatalf("status = %q: %s", result.Status, result.Message)
	}
	if provider.calls != 3 {
		t.Errorf("completion calls = %d, want 3", provider.calls)
	}
	if len(result.ReasoningSteps) != 2 {
		t.Fatalf("got %d reasoning steps, want 2", len(result.ReasoningSteps))
	}

	first := result.ReasoningSteps[0]
	if first.Step != 1 || first.Action != "analyze_sensor_data" {
		t.Errorf("first step = %+v", first)
	}
	if !strings.Contains(first.Finding, "ecoli: 5 exceeds max 0 (EPA SDWA)") {
		t.Errorf("first finding missing violation: %q", first.Finding)
	}
	if result.FinalRecommendation.Action != "CHLORINE_BOOST" {
		t.Errorf("action = %q", result.FinalRecommendation.Action)
	}
	if !strings.Contains(result.Briefing, "RECOMMENDATION: CHLORINE_BOOST") {
		t.Errorf("briefing missing recommendation:\n%s", result.Briefing)
	}
	if !strings.Contains(result.Briefing, "Confidence: 88%") {
		t.Errorf("briefing missing confidence:\n%s", result.Briefing)
	}

	// Tools are offered on every call.
	for i, req := range provider.requests {
		if len(req.Tools) != 4 {
			t.Errorf("call %d offered %d tools, want 4", i, len(req.Tools))
		}
	}
	// Tool observations are threaded back as tool-role messages.
	last := provider.requests[2]
	var toolMessages int
	for _, m := range last.Messages {
		if m.Role == llm.RoleTool {
			toolMessages++
		}
	}
	if toolMessages != 2 {
		t.Errorf("final request carried %d tool messages, want 2", toolMessages)
	}
}

func TestAnalyzeCapsCompletionCalls(t *testing.T) {
	// The scripted provider past its script always issues another
	// tool call; the loop must stop at the cap regardless.
	provider := &scriptedProvider{}
	engine := NewEngine(provider, "gpt-4o", 0.2)

	result := engine.Analyze(context.Background(), testIncident())
	if provider.calls != 10 {
		t.Errorf("completion calls = %d, want exactly 10", provider.calls)
	}
	if result.Status != "success" {
		t.Errorf("status = %q", result.Status)
	}
	// No final text was produced, so the parser fallback applies.
	if result.FinalRecommendation.Action != "REVIEW_REQUIRED" {
		t.Errorf("action = %q, want REVIEW_REQUIRED", result.FinalRecommendation.Action)
	}
	if len(result.ReasoningSteps) != 10 {
		t.Errorf("got %d steps, want 10", len(result.ReasoningSteps))
	}
}

func TestAnalyzeToolErrorBecomesObservation(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.CompletionResponse{
			{
				ToolCalls: []llm.ToolCall{{
					ID:        "call_1",
					Name:      "no_such_tool",
					Arguments: `{}`,
				}},
			},
			{
				Content: `{"action":"REVIEW_REQUIRED","urgency":"HIGH","confidence":0.5,"reasoning":"tool failed","fallback_plan":"manual"}`,
			},
		},
	}
	engine := NewEngine(provider, "gpt-4o", 0.2)

	result := engine.Analyze(context.Background(), testIncident())
	if result.Status != "success" {
		t.Fatalf("status = %q", result.Status)
	}
	if len(result.ReasoningSteps) != 1 {
		t.Fatalf("got %d steps, want 1", len(result.ReasoningSteps))
	}
	if !strings.Contains(result.ReasoningSteps[0].Finding, "unknown tool") {
		t.Errorf("finding = %q, want error observation", result.ReasoningSteps[0].Finding)
	}
	// The loop continued past the failing tool.
	if provider.calls != 2 {
		t.Errorf("completion calls = %d, want 2", provider.calls)
	}
}

func TestAnalyzeProviderFailureBeforeOutput(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("connection refused")}}
	engine := NewEngine(provider, "gpt-4o", 0.2)

	result := engine.Analyze(context.Background(), testIncident())
	if result.Status != "error" {
		t.Fatalf("status = %q, want error", result.Status)
	}
	rec := result.FinalRecommendation
	if rec.Action != "MANUAL_REVIEW_REQUIRED" || rec.Confidence != 0.0 {
		t.Errorf("recommendation = %+v", rec)
	}
	if !strings.Contains(rec.Reasoning, "Agent error:") {
		t.Errorf("reasoning = %q", rec.Reasoning)
	}
	// Even the error path must carry a fallback plan.
	if rec.FallbackPlan != "Escalate to human decision-maker" {
		t.Errorf("fallback_plan = %q, want default", rec.FallbackPlan)
	}
	if result.ReasoningSteps == nil {
		t.Error("reasoning_steps must be an empty list, not null")
	}
}

func TestAnalyzeDirectAnswerGetsSummarySteps(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.CompletionResponse{
			{Content: `{"action":"BOIL_WATER_ADVISORY","urgency":"CRITICAL","confidence":0.9,"reasoning":"obvious","fallback_plan":"none"}`},
		},
	}
	engine := NewEngine(provider, "gpt-4o", 0.2)

	result := engine.Analyze(context.Background(), testIncident())
	if len(result.ReasoningSteps) != 4 {
		t.Errorf("got %d summary steps, want 4", len(result.ReasoningSteps))
	}
	if result.FinalRecommendation.Action != "BOIL_WATER_ADVISORY" {
		t.Errorf("action = %q", result.FinalRecommendation.Action)
	}
}

func TestExecuteToolDispatch(t *testing.T) {
	out, err := executeTool("calculate_population_impact", `{"facility_id":"Atlanta_WTP"}`)
	if err != nil {
		t.Fatalf("executeTool: %v", err)
	}
	var impact struct {
		TotalCustomers       int `json:"total_customers"`
		VulnerablePopulation int `json:"vulnerable_population"`
	}
	if err := json.Unmarshal([]byte(out), &impact); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if impact.TotalCustomers != 125000 || impact.VulnerablePopulation != 18750 {
		t.Errorf("unexpected impact: %+v", impact)
	}

	out, err = executeTool("assess_regulatory_risk", `{"parameter":"ecoli","value":5}`)
	if err != nil {
		t.Fatalf("executeTool: %v", err)
	}
	if !strings.Contains(out, `"violation_fine":37500`) || !strings.Contains(out, `"risk_level":"HIGH"`) {
		t.Errorf("unexpected risk output: %s", out)
	}

	if _, err := executeTool("analyze_sensor_data", `not json`); err == nil {
		t.Error("expected error for malformed arguments")
	}
}

func TestAnalyzeRoute(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.CompletionResponse{
			{Content: `{"action":"CHLORINE_BOOST","urgency":"CRITICAL","confidence":0.88,"reasoning":"violation","fallback_plan":"advisory"}`},
		},
	}
	engine := NewEngine(provider, "gpt-4o", 0.2)

	r := chi.NewRouter()
	RegisterRoutes(r, engine)

	body := `{"incident_id":"INC-1","incident_type":"WATER_CONTAMINATION","facility_id":"Atlanta_WTP","sensor_data":{"ecoli":5},"context":{"weather":"heavy_rain"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/agents/reasoning/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result AnalysisResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.FinalRecommendation.Action != "CHLORINE_BOOST" {
		t.Errorf("action = %q", result.FinalRecommendation.Action)
	}
}

func TestAnalyzeRouteRequiresType(t *testing.T) {
	engine := NewEngine(&scriptedProvider{}, "gpt-4o", 0.2)
	r := chi.NewRouter()
	RegisterRoutes(r, engine)

	req := httptest.NewRequest(http.MethodPost, "/api/agents/reasoning/analyze", strings.NewReader(`{"facility_id":"X"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
