package reasoning

import (
	"encoding/json"
	"fmt"

	"github.com/envops/incidentd/internal/catalog"
	"github.com/envops/incidentd/internal/llm"
	"github.com/envops/incidentd/internal/rules"
)

// toolDefs declares the four analysis tools offered to the model on
// every completion call. The set is closed: dispatch is a switch, not
// a plugin registry.
func toolDefs() []llm.Tool {
	return []llm.Tool{
		{
			Name:        "analyze_sensor_data",
			Description: "Analyze current sensor readings against EPA/DEQ regulatory limits.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"sensor_data": {
						"type": "object",
						"description": "Map of parameter name to reading, e.g. {\"ecoli\": 5, \"ph\": 7.8}",
						"additionalProperties": {"type": "number"}
					}
				},
				"required": ["sensor_data"]
			}`),
		},
		{
			Name:        "calculate_population_impact",
			Description: "Calculate affected population based on facility and distribution zone.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"facility_id": {
						"type": "string",
						"description": "Facility identifier, e.g. Atlanta_WTP"
					}
				},
				"required": ["facility_id"]
			}`),
		},
		{
			Name:        "evaluate_response_options",
			Description: "Compare cost/benefit of different response strategies.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"incident_type": {
						"type": "string",
						"description": "Incident category, e.g. WATER_CONTAMINATION"
					}
				},
				"required": ["incident_type"]
			}`),
		},
		{
			Name:        "assess_regulatory_risk",
			Description: "Assess regulatory compliance risk and potential fines.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"parameter": {
						"type": "string",
						"description": "Sensor parameter, e.g. ecoli"
					},
					"value": {
						"type": "number",
						"description": "Current reading for the parameter"
					}
				},
				"required": ["parameter", "value"]
			}`),
		},
	}
}

// executeTool dispatches one tool call. The returned string is always
// JSON; an error means the arguments did not parse or the tool name
// is unknown, and the caller converts it into an error observation.
func executeTool(name, arguments string) (string, error) {
	switch name {
	case "analyze_sensor_data":
		var args struct {
			SensorData map[string]float64 `json:"sensor_data"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("analyze_sensor_data: invalid arguments: %w", err)
		}
		return marshalResult(rules.Evaluate(args.SensorData))

	case "calculate_population_impact":
		var args struct {
			FacilityID string `json:"facility_id"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("calculate_population_impact: invalid arguments: %w", err)
		}
		return marshalResult(catalog.LookupPopulationImpact(args.FacilityID))

	case "evaluate_response_options":
		var args struct {
			IncidentType string `json:"incident_type"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("evaluate_response_options: invalid arguments: %w", err)
		}
		return marshalResult(catalog.LookupResponseOptions(args.IncidentType))

	case "assess_regulatory_risk":
		var args struct {
			Parameter string  `json:"parameter"`
			Value     float64 `json:"value"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("assess_regulatory_risk: invalid arguments: %w", err)
		}
		return marshalResult(catalog.LookupRegulatoryRisk(args.Parameter, args.Value))

	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}
	return string(data), nil
}
