package memory

// StoreResult confirms one case was stored.
type StoreResult struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	TotalIncidents int    `json:"total_incidents"`
}

// SimilarIncident is one recalled case, ranked by similarity.
type SimilarIncident struct {
	IncidentID      string  `json:"incident_id"`
	IncidentType    string  `json:"incident_type"`
	FacilityID      string  `json:"facility_id"`
	SimilarityScore float64 `json:"similarity_score"`
	Outcome         string  `json:"outcome"`
	ResolutionTime  string  `json:"resolution_time"`
	Cost            int     `json:"cost"`
	Timestamp       string  `json:"timestamp"`
	Details         string  `json:"details"`
}

// Patterns aggregates outcomes across a set of recalled cases.
type Patterns struct {
	TotalSimilarIncidents int     `json:"total_similar_incidents"`
	SuccessRate           float64 `json:"success_rate"`
	AverageResolutionTime string  `json:"average_resolution_time"`
	AverageCost           int     `json:"average_cost"`
	MostSimilarScore      float64 `json:"most_similar_score,omitempty"`
}

// RecallResult is the full answer to a recall query: the matches,
// their aggregate patterns, and a human-readable recommendation.
type RecallResult struct {
	Status           string            `json:"status"`
	Message          string            `json:"message,omitempty"`
	SimilarIncidents []SimilarIncident `json:"similar_incidents"`
	Patterns         *Patterns         `json:"patterns,omitempty"`
	Recommendation   string            `json:"recommendation,omitempty"`
	QueryUsed        string            `json:"query_used,omitempty"`
}

// MemoryStats describes the state of the case memory. The breakdown
// fields come from the case registry and are absent when no registry
// is configured.
type MemoryStats struct {
	TotalIncidentsStored  int            `json:"total_incidents_stored"`
	CollectionName        string         `json:"collection_name"`
	EmbeddingModel        string         `json:"embedding_model"`
	Status                string         `json:"status"`
	IncidentTypes         map[string]int `json:"incident_types,omitempty"`
	SuccessfulResolutions int            `json:"successful_resolutions"`
}
