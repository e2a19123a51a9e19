package reasoning

import (
	"encoding/json"
	"strings"
)

// defaultFallbackPlan backs every recommendation that arrives without
// one. A recommendation must always carry a fallback, including the
// error path.
const defaultFallbackPlan = "Escalate to human decision-maker"

// ParseRecommendation extracts a structured recommendation from model
// output. It first tries the JSON span between the first "{" and the
// last "}"; if that fails, it falls back to a conservative default
// with keyword-derived action overrides.
func ParseRecommendation(output string) Recommendation {
	if start := strings.Index(output, "{"); start >= 0 {
		if end := strings.LastIndex(output, "}"); end > start {
			var rec Recommendation
			if err := json.Unmarshal([]byte(output[start:end+1]), &rec); err == nil {
				// Parsed payloads may still omit required fields.
				if rec.Action == "" {
					rec.Action = "REVIEW_REQUIRED"
				}
				if rec.FallbackPlan == "" {
					rec.FallbackPlan = defaultFallbackPlan
				}
				return rec
			}
		}
	}

	rec := Recommendation{
		Action:       "REVIEW_REQUIRED",
		Urgency:      "HIGH",
		Confidence:   0.5,
		Reasoning:    truncate(output, 500),
		FallbackPlan: defaultFallbackPlan,
	}

	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "chlorine"):
		rec.Action = "CHLORINE_BOOST"
		rec.Confidence = 0.85
	case strings.Contains(lower, "boil water"):
		rec.Action = "BOIL_WATER_ADVISORY"
		rec.Confidence = 0.90
	case strings.Contains(lower, "reduce"):
		rec.Action = "REDUCE_OPERATIONS"
		rec.Confidence = 0.80
	}

	return rec
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
