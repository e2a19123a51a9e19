package reasoning

// ReasoningStep is one tool invocation made during deliberation.
type ReasoningStep struct {
	Step       int     `json:"step"`
	Action     string  `json:"action"`
	Input      string  `json:"input,omitempty"`
	Finding    string  `json:"finding"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Recommendation is the structured outcome of an analysis.
type Recommendation struct {
	Action       string  `json:"action"`
	Urgency      string  `json:"urgency"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
	FallbackPlan string  `json:"fallback_plan,omitempty"`
}

// AnalysisResult is the full answer to an analysis request: the
// deliberation trace, the final recommendation, and a briefing
// rendered for the meeting scheduler.
type AnalysisResult struct {
	Status              string          `json:"status"`
	Message             string          `json:"message,omitempty"`
	ReasoningSteps      []ReasoningStep `json:"reasoning_steps"`
	FinalRecommendation Recommendation  `json:"final_recommendation"`
	Briefing            string          `json:"briefing,omitempty"`
	RawAnalysis         string          `json:"raw_analysis,omitempty"`
}
