package incident

import "encoding/json"

// Known incident categories. The category set is open-ended: unknown
// values flow through the catalog's generic fallback rather than
// failing validation.
const (
	CategoryWaterContamination = "WATER_CONTAMINATION"
	CategoryAirQuality         = "AIR_QUALITY_VIOLATION"
	CategoryEquipmentFailure   = "EQUIPMENT_FAILURE"
)

// Outcome values recorded on historical cases.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// Incident is a single environmental-facility event submitted for
// analysis. Immutable once submitted.
type Incident struct {
	ID         string             `json:"incident_id,omitempty"`
	Type       string             `json:"incident_type"`
	FacilityID string             `json:"facility_id,omitempty"`
	SensorData map[string]float64 `json:"sensor_data,omitempty"`
	Symptoms   map[string]string  `json:"symptoms,omitempty"`
	Context    ContextField       `json:"context,omitempty"`
	Urgency    string             `json:"urgency,omitempty"`
	Timestamp  string             `json:"timestamp,omitempty"`
}

// UnmarshalJSON accepts both "incident_type" and the shorter "type"
// key used by recall requests.
func (i *Incident) UnmarshalJSON(data []byte) error {
	type alias Incident
	aux := struct {
		*alias
		ShortType string `json:"type"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if i.Type == "" {
		i.Type = aux.ShortType
	}
	return nil
}

// ContextField carries free-form incident context, which callers may
// supply either as a key/value object or as plain text.
type ContextField struct {
	Fields map[string]any
	Text   string
}

// IsZero reports whether no context was supplied at all.
func (c ContextField) IsZero() bool {
	return len(c.Fields) == 0 && c.Text == ""
}

func (c *ContextField) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &c.Text)
	}
	return json.Unmarshal(data, &c.Fields)
}

func (c ContextField) MarshalJSON() ([]byte, error) {
	if c.Text != "" {
		return json.Marshal(c.Text)
	}
	if len(c.Fields) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(c.Fields)
}

// CaseDetails is the outcome record attached to a resolved incident.
type CaseDetails struct {
	RootCause      string   `json:"root_cause,omitempty"`
	ActionsTaken   []string `json:"actions_taken,omitempty"`
	Outcome        string   `json:"outcome"`
	ResolutionTime string   `json:"resolution_time"`
	Cost           float64  `json:"cost"`
	LessonsLearned string   `json:"lessons_learned,omitempty"`
}

// HistoricalCase is a resolved incident plus its outcome record.
// Append-only: never mutated after storage.
type HistoricalCase struct {
	Incident
	Details CaseDetails `json:"details"`
}
