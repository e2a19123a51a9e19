package incident

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SearchText converts an incident into its canonical search-text
// representation: fixed field order, sorted keys within each mapping,
// " | " between sections. The same function serves the storage and
// query paths so that similar incidents embed close together.
func (i Incident) SearchText() string {
	var parts []string

	incidentType := i.Type
	if incidentType == "" {
		incidentType = "UNKNOWN"
	}
	parts = append(parts, "Type: "+incidentType)

	facility := i.FacilityID
	if facility == "" {
		facility = "UNKNOWN"
	}
	parts = append(parts, "Facility: "+facility)

	if len(i.SensorData) > 0 {
		parts = append(parts, "Sensors: "+formatSensorPairs(i.SensorData))
	}

	if len(i.Symptoms) > 0 {
		pairs := make([]string, 0, len(i.Symptoms))
		for _, k := range sortedKeys(i.Symptoms) {
			pairs = append(pairs, k+"="+i.Symptoms[k])
		}
		parts = append(parts, "Symptoms: "+strings.Join(pairs, ", "))
	}

	if !i.Context.IsZero() {
		parts = append(parts, "Context: "+i.Context.canonical())
	}

	return strings.Join(parts, " | ")
}

// SearchText for a stored case extends the incident text with the
// outcome record, so resolutions and lessons participate in recall.
func (c HistoricalCase) SearchText() string {
	parts := []string{c.Incident.SearchText()}

	if len(c.Details.ActionsTaken) > 0 {
		parts = append(parts, "Actions: "+strings.Join(c.Details.ActionsTaken, ", "))
	}
	if c.Details.Outcome != "" {
		parts = append(parts, "Outcome: "+c.Details.Outcome)
	}
	if c.Details.LessonsLearned != "" {
		parts = append(parts, "Lessons: "+c.Details.LessonsLearned)
	}

	return strings.Join(parts, " | ")
}

func (c ContextField) canonical() string {
	if c.Text != "" {
		return c.Text
	}
	pairs := make([]string, 0, len(c.Fields))
	for _, k := range sortedKeys(c.Fields) {
		pairs = append(pairs, k+"="+formatContextValue(c.Fields[k]))
	}
	return strings.Join(pairs, ", ")
}

// formatContextValue renders context values decoded from JSON. Numbers
// arrive as float64 and must not pick up exponent notation.
func formatContextValue(v any) string {
	switch val := v.(type) {
	case float64:
		return FormatValue(val)
	case string:
		return val
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, formatContextValue(item))
		}
		return "[" + strings.Join(items, " ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatSensorPairs(readings map[string]float64) string {
	pairs := make([]string, 0, len(readings))
	for _, k := range sortedKeys(readings) {
		pairs = append(pairs, k+"="+FormatValue(readings[k]))
	}
	return strings.Join(pairs, ", ")
}

// FormatValue renders a sensor reading without trailing zeros
// (5 -> "5", 7.8 -> "7.8").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
