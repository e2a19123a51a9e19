package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/envops/incidentd/internal/incident"
	"github.com/envops/incidentd/internal/memory"
)

// handleSearchIncidents recalls the cases most similar to the
// described incident.
func (s *Server) handleSearchIncidents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	incidentType, err := request.RequireString("incident_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: incident_type"), nil
	}

	topK := request.GetInt("top_k", 5)
	if topK <= 0 {
		topK = 5
	}

	inc := incident.Incident{
		Type:       incidentType,
		FacilityID: request.GetString("facility_id", ""),
	}
	if desc := request.GetString("description", ""); desc != "" {
		inc.Context = incident.ContextField{Text: desc}
	}

	result := s.memory.Recall(ctx, inc, topK)
	if result.Status != "success" {
		return mcp.NewToolResultError(fmt.Sprintf("recall failed: %s", result.Message)), nil
	}

	if len(result.SimilarIncidents) == 0 {
		return mcp.NewToolResultText("No similar incidents found. The memory may be empty; run `incidentd seed` to load historical cases."), nil
	}

	return mcp.NewToolResultText(formatSimilarIncidents(result.SimilarIncidents)), nil
}

// handleIncidentPatterns returns aggregate statistics for similar
// incidents.
func (s *Server) handleIncidentPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	incidentType, err := request.RequireString("incident_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: incident_type"), nil
	}

	inc := incident.Incident{
		Type:       incidentType,
		FacilityID: request.GetString("facility_id", ""),
	}

	result := s.memory.Recall(ctx, inc, 5)
	if result.Status != "success" {
		return mcp.NewToolResultError(fmt.Sprintf("recall failed: %s", result.Message)), nil
	}

	p := result.Patterns
	text := fmt.Sprintf(`Pattern statistics for %s:
Similar incidents: %d
Success rate: %d%%
Average resolution time: %s
Average cost: $%d`,
		incidentType,
		p.TotalSimilarIncidents,
		int(p.SuccessRate*100),
		p.AverageResolutionTime,
		p.AverageCost)

	return mcp.NewToolResultText(text), nil
}

// handleMemoryStats reports the memory's state.
func (s *Server) handleMemoryStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.memory.Stats()
	text := fmt.Sprintf(`Incident memory status: %s
Cases stored: %d
Collection: %s
Embedding model: %s`,
		stats.Status,
		stats.TotalIncidentsStored,
		stats.CollectionName,
		stats.EmbeddingModel)

	if len(stats.IncidentTypes) > 0 {
		text += fmt.Sprintf("\nSuccessful resolutions: %d", stats.SuccessfulResolutions)
		for _, category := range sortedKeys(stats.IncidentTypes) {
			text += fmt.Sprintf("\n  %s: %d", category, stats.IncidentTypes[category])
		}
	}

	return mcp.NewToolResultText(text), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatSimilarIncidents renders recall matches as text optimized for
// AI agent consumption.
func formatSimilarIncidents(incidents []memory.SimilarIncident) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d similar incident(s):\n", len(incidents)))

	for i, inc := range incidents {
		sb.WriteString(fmt.Sprintf("\n--- Match %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("ID: %s\n", inc.IncidentID))
		sb.WriteString(fmt.Sprintf("Type: %s\n", inc.IncidentType))
		if inc.FacilityID != "" {
			sb.WriteString(fmt.Sprintf("Facility: %s\n", inc.FacilityID))
		}
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", inc.SimilarityScore*100))
		sb.WriteString(fmt.Sprintf("Outcome: %s\n", inc.Outcome))
		if inc.ResolutionTime != "" {
			sb.WriteString(fmt.Sprintf("Resolution time: %s\n", inc.ResolutionTime))
		}
		if inc.Cost > 0 {
			sb.WriteString(fmt.Sprintf("Cost: $%d\n", inc.Cost))
		}
		sb.WriteString("\n")
		sb.WriteString(inc.Details)
		sb.WriteString("\n")
	}

	return sb.String()
}
