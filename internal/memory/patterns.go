package memory

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/envops/incidentd/internal/incident"
)

// AnalyzePatterns aggregates outcomes across recalled cases: success
// rate, average resolution time in hours, and average cost. Cases
// with unparsable resolution times are skipped from the time average
// but still count toward the rate and the cost average.
func AnalyzePatterns(incidents []SimilarIncident) Patterns {
	if len(incidents) == 0 {
		return Patterns{
			TotalSimilarIncidents: 0,
			SuccessRate:           0,
			AverageResolutionTime: "N/A",
			AverageCost:           0,
		}
	}

	successful := 0
	for _, i := range incidents {
		if i.Outcome == incident.OutcomeSuccess {
			successful++
		}
	}
	successRate := float64(successful) / float64(len(incidents))

	var resolutionHours []float64
	for _, i := range incidents {
		if hours, ok := parseResolutionHours(i.ResolutionTime); ok {
			resolutionHours = append(resolutionHours, hours)
		}
	}
	var avgTime float64
	if len(resolutionHours) > 0 {
		var sum float64
		for _, h := range resolutionHours {
			sum += h
		}
		avgTime = sum / float64(len(resolutionHours))
	}

	var costSum float64
	for _, i := range incidents {
		costSum += float64(i.Cost)
	}
	avgCost := costSum / float64(len(incidents))

	avgTimeText := "N/A"
	if avgTime > 0 {
		avgTimeText = fmt.Sprintf("%d hours", int(avgTime))
	}

	return Patterns{
		TotalSimilarIncidents: len(incidents),
		SuccessRate:           math.Round(successRate*100) / 100,
		AverageResolutionTime: avgTimeText,
		AverageCost:           int(avgCost),
		MostSimilarScore:      incidents[0].SimilarityScore,
	}
}

// parseResolutionHours parses durations like "6 hours" or "2 days"
// into hours. Anything else is skipped.
func parseResolutionHours(s string) (float64, bool) {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return 0, false
	}
	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	if strings.Contains(strings.ToLower(parts[1]), "day") {
		value *= 24
	}
	return value, true
}

// HistoricalRecommendation renders the pattern analysis as briefing
// text, leading with the closest historical case.
func HistoricalRecommendation(incidents []SimilarIncident, patterns Patterns) string {
	if len(incidents) == 0 {
		return "No similar historical incidents found. Proceed with standard protocols."
	}

	mostSimilar := incidents[0]
	return fmt.Sprintf(`Based on %d similar past incidents:
• Most similar case: %s (similarity: %.0f%%)
• Historical success rate: %d%%
• Average resolution time: %s
• Average cost: $%s

Recommended approach: %s`,
		len(incidents),
		mostSimilar.IncidentID,
		mostSimilar.SimilarityScore*100,
		int(patterns.SuccessRate*100),
		patterns.AverageResolutionTime,
		formatThousands(patterns.AverageCost),
		mostSimilar.Details)
}

// formatThousands renders 2000000 as "2,000,000".
func formatThousands(v int) string {
	s := strconv.Itoa(v)
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
