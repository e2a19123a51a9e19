// Package analysis runs the combined pipeline: recall similar cases,
// deliberate over the incident, then fuse both into one
// recommendation with a meeting request.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/envops/incidentd/internal/briefing"
	"github.com/envops/incidentd/internal/catalog"
	"github.com/envops/incidentd/internal/incident"
	"github.com/envops/incidentd/internal/memory"
	"github.com/envops/incidentd/internal/reasoning"
)

// MemoryInsights is the recall half of a combined result.
type MemoryInsights struct {
	SimilarIncidents         []memory.SimilarIncident `json:"similar_incidents"`
	Patterns                 *memory.Patterns         `json:"patterns,omitempty"`
	HistoricalRecommendation string                   `json:"historical_recommendation"`
}

// ReasoningAnalysis is the deliberation half of a combined result.
type ReasoningAnalysis struct {
	Steps          []reasoning.ReasoningStep `json:"steps"`
	Recommendation reasoning.Recommendation  `json:"recommendation"`
	Analysis       string                    `json:"analysis,omitempty"`
}

// CombinedResult is the full answer of the combined pipeline.
type CombinedResult struct {
	IncidentID             string                          `json:"incident_id"`
	Timestamp              string                          `json:"timestamp"`
	MemoryInsights         MemoryInsights                  `json:"memory_insights"`
	ReasoningAnalysis      ReasoningAnalysis               `json:"reasoning_analysis"`
	CombinedRecommendation briefing.CombinedRecommendation `json:"combined_recommendation"`
	ExecutiveSummary       string                          `json:"executive_summary"`
	Briefing               string                          `json:"briefing"`
	MeetingRequest         briefing.MeetingRequest         `json:"meeting_request"`
	ActionItems            []briefing.ActionItem           `json:"action_items"`
}

// Engine runs the combined pipeline.
type Engine struct {
	memory    *memory.Engine
	reasoning *reasoning.Engine
	now       func() time.Time
}

// NewEngine creates a combined-analysis engine.
func NewEngine(mem *memory.Engine, res *reasoning.Engine) *Engine {
	return &Engine{memory: mem, reasoning: res, now: time.Now}
}

// Analyze recalls similar cases, runs the deliberation loop, and
// fuses the two. A failed recall degrades to "no historical
// validation"; it never blocks the reasoning half.
func (e *Engine) Analyze(ctx context.Context, inc incident.Incident) CombinedResult {
	if inc.ID == "" {
		inc.ID = "INC-" + uuid.NewString()
	}

	recall := e.memory.Recall(ctx, inc, 5)

	var patterns *memory.Patterns
	if recall.Status == "success" {
		patterns = recall.Patterns
	}

	analysis := e.reasoning.Analyze(ctx, inc)
	rec := analysis.FinalRecommendation

	combined := briefing.Combine(rec, patterns)
	population := catalog.LookupPopulationImpact(inc.FacilityID).TotalCustomers

	return CombinedResult{
		IncidentID: inc.ID,
		Timestamp:  e.now().UTC().Format(time.RFC3339),
		MemoryInsights: MemoryInsights{
			SimilarIncidents:         recall.SimilarIncidents,
			Patterns:                 recall.Patterns,
			HistoricalRecommendation: recall.Recommendation,
		},
		ReasoningAnalysis: ReasoningAnalysis{
			Steps:          analysis.ReasoningSteps,
			Recommendation: rec,
			Analysis:       analysis.RawAnalysis,
		},
		CombinedRecommendation: combined,
		ExecutiveSummary:       briefing.ExecutiveSummary(inc.Type, combined),
		Briefing:               briefing.CombinedBriefing(rec, patterns),
		MeetingRequest:         briefing.BuildMeetingRequest(inc.Type, rec, population),
		ActionItems:            briefing.ActionItems(rec),
	}
}
