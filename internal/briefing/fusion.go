package briefing

import (
	"fmt"
	"strings"

	"github.com/envops/incidentd/internal/memory"
	"github.com/envops/incidentd/internal/reasoning"
)

// CombinedRecommendation fuses the model's recommendation with the
// historical pattern statistics. HistoricalValidation is false when
// recall produced no matches; fusion itself never fails.
type CombinedRecommendation struct {
	PrimaryAction         string  `json:"primary_action"`
	Confidence            float64 `json:"confidence"`
	HistoricalSuccessRate float64 `json:"historical_success_rate"`
	HistoricalValidation  bool    `json:"historical_validation"`
	Reasoning             string  `json:"reasoning"`
	FallbackPlan          string  `json:"fallback_plan"`
}

// Combine merges the reasoning recommendation with recall patterns.
// A nil patterns value means recall failed or found nothing.
func Combine(rec reasoning.Recommendation, patterns *memory.Patterns) CombinedRecommendation {
	combined := CombinedRecommendation{
		PrimaryAction: rec.Action,
		Confidence:    rec.Confidence,
		Reasoning:     rec.Reasoning,
		FallbackPlan:  rec.FallbackPlan,
	}
	if combined.PrimaryAction == "" {
		combined.PrimaryAction = "REVIEW_REQUIRED"
	}
	if combined.FallbackPlan == "" {
		combined.FallbackPlan = "Escalate to authorities"
	}
	if patterns != nil {
		combined.HistoricalSuccessRate = patterns.SuccessRate
		combined.HistoricalValidation = patterns.TotalSimilarIncidents > 0
	}
	return combined
}

// ExecutiveSummary is the one-sentence lead for the briefing.
func ExecutiveSummary(category string, combined CombinedRecommendation) string {
	validation := "no historical validation available"
	if combined.HistoricalValidation {
		validation = fmt.Sprintf("validated against history at a %d%% success rate", int(combined.HistoricalSuccessRate*100))
	}
	return fmt.Sprintf("%s incident: recommended action %s at %d%% confidence, %s.",
		category, combined.PrimaryAction, int(combined.Confidence*100), validation)
}

// CombinedBriefing renders the fused analysis as meeting text.
func CombinedBriefing(rec reasoning.Recommendation, patterns *memory.Patterns) string {
	var (
		totalSimilar int
		successRate  float64
		avgTime      = "N/A"
	)
	if patterns != nil {
		totalSimilar = patterns.TotalSimilarIncidents
		successRate = patterns.SuccessRate
		if patterns.AverageResolutionTime != "" {
			avgTime = patterns.AverageResolutionTime
		}
	}

	reasoningText := rec.Reasoning
	if reasoningText == "" {
		reasoningText = "See detailed analysis"
	}

	return fmt.Sprintf(`COMPREHENSIVE INCIDENT ANALYSIS

RECOMMENDATION: %s
Confidence: %d%%

HISTORICAL VALIDATION:
• %d similar past incidents
• %d%% historical success rate
• Average resolution: %s

CURRENT ANALYSIS:
%s

Full analysis and historical data available in attached reports.`,
		actionOrNA(rec.Action),
		int(rec.Confidence*100),
		totalSimilar,
		int(successRate*100),
		avgTime,
		truncate(reasoningText, 200))
}

// Agenda builds the ordered meeting agenda: an eight-item skeleton,
// with a containment line for contamination incidents and a fallback
// line when the recommendation carries one, both inserted directly
// after the recommended-action item.
func Agenda(category string, rec reasoning.Recommendation) []string {
	agenda := []string{
		"Incident overview and current status",
		"Sensor readings and regulatory violations review",
		"Historical precedent and success rates",
		"Population and service impact assessment",
		fmt.Sprintf("Recommended action: %s (confidence %d%%)", actionOrNA(rec.Action), int(rec.Confidence*100)),
	}

	if strings.Contains(category, "CONTAMINATION") {
		agenda = append(agenda, "Containment and isolation planning")
	}
	if rec.FallbackPlan != "" {
		agenda = append(agenda, "Fallback plan: "+rec.FallbackPlan)
	}

	agenda = append(agenda,
		"Regulatory notification requirements",
		"Resource allocation and cost approval",
		"Communication plan and next steps",
	)

	return agenda
}

// ActionItem is one prioritized follow-up from the meeting.
type ActionItem struct {
	Priority    int    `json:"priority"`
	Description string `json:"description"`
}

// ActionItems builds the prioritized follow-up list: the primary
// action, the fallback if present, and the standing compliance and
// operations items.
func ActionItems(rec reasoning.Recommendation) []ActionItem {
	items := []ActionItem{
		{Priority: 1, Description: "Execute primary action: " + actionOrNA(rec.Action)},
	}
	if rec.FallbackPlan != "" {
		items = append(items, ActionItem{Priority: 2, Description: "Prepare fallback: " + rec.FallbackPlan})
	}

	next := len(items) + 1
	for _, standing := range []string{
		"Document all actions for regulatory reporting",
		"Monitor sensor readings for trend confirmation",
		"Prepare preliminary incident report for compliance",
	} {
		items = append(items, ActionItem{Priority: next, Description: standing})
		next++
	}

	return items
}

func actionOrNA(action string) string {
	if action == "" {
		return "N/A"
	}
	return action
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
