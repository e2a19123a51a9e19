// Package rules checks sensor readings against regulatory limits.
// Evaluation is pure: the same readings always produce the same
// violations, warnings, and severity, byte for byte.
package rules

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/envops/incidentd/internal/incident"
)

// Severity of an evaluation result.
const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"
	SeverityNormal   = "NORMAL"
)

// Limit defines the regulatory bounds for one sensor parameter.
// Min and Max are optional; a nil bound is not checked.
type Limit struct {
	Min        *float64
	Max        *float64
	Unit       string
	Regulation string
}

// limits is the registry of known parameters. Unknown parameters are
// ignored during evaluation, so extending this table is always safe.
var limits = map[string]Limit{
	"ecoli":     {Max: f(0), Unit: "CFU/100mL", Regulation: "EPA SDWA"},
	"ph":        {Min: f(6.5), Max: f(8.5), Regulation: "EPA SDWA"},
	"turbidity": {Max: f(1.0), Unit: "NTU", Regulation: "EPA SDWA"},
	"chlorine":  {Min: f(0.5), Max: f(4.0), Unit: "ppm", Regulation: "EPA SDWA"},
	"pm25":      {Max: f(35.0), Unit: "µg/m³", Regulation: "EPA NAAQS"},
	"pm10":      {Max: f(150.0), Unit: "µg/m³", Regulation: "EPA NAAQS"},
}

func f(v float64) *float64 { return &v }

// RegisterLimit adds or replaces a parameter in the registry.
// Intended for process-start configuration, not concurrent use.
func RegisterLimit(param string, limit Limit) {
	limits[param] = limit
}

// Result is the outcome of evaluating one set of sensor readings.
// Field names are part of the wire contract with the completion
// service and must not change.
type Result struct {
	Violations   []string `json:"violations"`
	Warnings     []string `json:"warnings"`
	Severity     string   `json:"severity"`
	CheckedCount int      `json:"total_parameters_checked"`
}

// Evaluate compares each known reading against its regulatory bounds.
// A reading past a bound is a violation; a reading above 90% of its
// max without violating is a warning. Parameters are processed in
// sorted order so output ordering is stable.
func Evaluate(readings map[string]float64) Result {
	result := Result{
		Violations:   []string{},
		Warnings:     []string{},
		CheckedCount: len(readings),
	}

	params := make([]string, 0, len(readings))
	for p := range readings {
		params = append(params, p)
	}
	sort.Strings(params)

	for _, param := range params {
		limit, known := limits[param]
		if !known {
			continue
		}
		value := readings[param]

		if limit.Max != nil && value > *limit.Max {
			result.Violations = append(result.Violations,
				param+": "+incident.FormatValue(value)+" exceeds max "+formatBound(*limit.Max)+" ("+limit.Regulation+")")
		} else if limit.Min != nil && value < *limit.Min {
			result.Violations = append(result.Violations,
				param+": "+incident.FormatValue(value)+" below min "+formatBound(*limit.Min)+" ("+limit.Regulation+")")
		}

		if limit.Max != nil && *limit.Max > 0 {
			percentage := value / *limit.Max * 100
			if percentage > 90 && value <= *limit.Max {
				result.Warnings = append(result.Warnings, warningText(param, value, *limit.Max, percentage))
			}
		}
	}

	switch {
	case len(result.Violations) > 0:
		result.Severity = SeverityCritical
	case len(result.Warnings) > 0:
		result.Severity = SeverityWarning
	default:
		result.Severity = SeverityNormal
	}

	return result
}

func warningText(param string, value, max, percentage float64) string {
	return fmt.Sprintf("%s at %.0f%% of limit (%s/%s)",
		param, percentage, incident.FormatValue(value), formatBound(max))
}

// formatBound renders a bound the way the regulation tables publish
// it: fractional values as-is, whole values with one decimal
// (1.0 NTU, 4.0 ppm, 35.0 µg/m³), and a zero ceiling bare.
func formatBound(v float64) string {
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
