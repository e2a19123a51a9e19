package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestBuildChatRequestDefaults(t *testing.T) {
	req := buildChatRequest("gpt-4o", CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "system prompt"},
			{Role: RoleUser, Content: "hello"},
		},
	})

	if req.Model != "gpt-4o" {
		t.Errorf("expected default model, got %q", req.Model)
	}
	if req.MaxTokens != 4096 {
		t.Errorf("expected default max tokens 4096, got %d", req.MaxTokens)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "system" {
		t.Errorf("expected system role, got %q", req.Messages[0].Role)
	}
}

func TestBuildChatRequestTools(t *testing.T) {
	params := json.RawMessage(`{"type":"object","properties":{"facility_id":{"type":"string"}}}`)
	req := buildChatRequest("gpt-4o", CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "analyze"}},
		Tools: []Tool{
			{Name: "calculate_population_impact", Description: "Calculate affected population", Parameters: params},
		},
	})

	if len(req.Tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(req.Tools))
	}
	if req.Tools[0].Type != openai.ToolTypeFunction {
		t.Errorf("expected function tool type, got %q", req.Tools[0].Type)
	}
	if req.Tools[0].Function.Name != "calculate_population_impact" {
		t.Errorf("unexpected tool name %q", req.Tools[0].Function.Name)
	}
}

func TestBuildChatRequestToolMessages(t *testing.T) {
	req := buildChatRequest("gpt-4o", CompletionRequest{
		Messages: []Message{
			{Role: RoleUser, Content: "analyze"},
			{Role: RoleAssistant, ToolCalls: []ToolCall{
				{ID: "call_0", Name: "analyze_sensor_data", Arguments: `{"ecoli":5}`},
			}},
			{Role: RoleTool, ToolCallID: "call_0", Content: `{"severity":"CRITICAL"}`},
		},
	})

	if len(req.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(req.Messages))
	}
	if len(req.Messages[1].ToolCalls) != 1 {
		t.Fatalf("expected assistant tool call to survive conversion")
	}
	if req.Messages[1].ToolCalls[0].Function.Name != "analyze_sensor_data" {
		t.Errorf("unexpected tool call name %q", req.Messages[1].ToolCalls[0].Function.Name)
	}
	if req.Messages[2].ToolCallID != "call_0" {
		t.Errorf("expected tool call id on tool message, got %q", req.Messages[2].ToolCallID)
	}
}

func TestParseChatResponseToolCalls(t *testing.T) {
	resp := parseChatResponse(openai.ChatCompletionResponse{
		Model: "gpt-4o",
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role: "assistant",
				ToolCalls: []openai.ToolCall{{
					ID:   "call_1",
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      "evaluate_response_options",
						Arguments: `{"incident_type":"WATER_CONTAMINATION"}`,
					},
				}},
			},
			FinishReason: openai.FinishReasonToolCalls,
		}},
	})

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	if resp.ToolCalls[0].Name != "evaluate_response_options" {
		t.Errorf("unexpected tool call name %q", resp.ToolCalls[0].Name)
	}
}

func TestOllamaToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "assess_regulatory_risk" {
			t.Errorf("tools not forwarded: %+v", req.Tools)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "llama3",
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{"function": {"name": "assess_regulatory_risk", "arguments": {"parameter": "ecoli", "value": 5}}}]
			},
			"done": true,
			"done_reason": "stop"
		}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "check"}},
		Tools: []Tool{{
			Name:        "assess_regulatory_risk",
			Description: "Assess regulatory compliance risk",
			Parameters:  json.RawMessage(`{"type":"object"}`),
		}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	if resp.ToolCalls[0].Name != "assess_regulatory_risk" {
		t.Errorf("unexpected tool name %q", resp.ToolCalls[0].Name)
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(resp.ToolCalls[0].Arguments), &args); err != nil {
		t.Fatalf("arguments not valid JSON: %v", err)
	}
	if args["parameter"] != "ecoli" {
		t.Errorf("unexpected arguments: %v", args)
	}
}

func TestOllamaReplaysAssistantToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Messages) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(req.Messages))
		}
		calls := req.Messages[1].ToolCalls
		if len(calls) != 1 {
			t.Fatalf("assistant tool call dropped from history: %+v", req.Messages[1])
		}
		if calls[0].Function.Name != "analyze_sensor_data" {
			t.Errorf("unexpected tool call name %q", calls[0].Function.Name)
		}
		var args map[string]any
		if err := json.Unmarshal(calls[0].Function.Arguments, &args); err != nil {
			t.Errorf("replayed arguments not valid JSON: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "llama3",
			"message": {"role": "assistant", "content": "done"},
			"done": true,
			"done_reason": "stop"
		}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleUser, Content: "analyze"},
			{Role: RoleAssistant, ToolCalls: []ToolCall{
				{ID: "call_0", Name: "analyze_sensor_data", Arguments: `{"ecoli":5}`},
			}},
			{Role: RoleTool, ToolCallID: "call_0", Content: `{"severity":"CRITICAL"}`},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "done" {
		t.Errorf("content = %q, want %q", resp.Content, "done")
	}
}

func TestNewProviderRequiresKey(t *testing.T) {
	old := os.Getenv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", old)

	if _, err := NewProvider("openai", "gpt-4o"); err == nil {
		t.Error("expected error when OPENAI_API_KEY is unset")
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	if _, err := NewProvider("carrier-pigeon", "rfc1149"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
