// Package memory stores resolved cases and recalls the ones most
// similar to a new incident, with pattern statistics aggregated over
// the matches.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/envops/incidentd/internal/incident"
	"github.com/envops/incidentd/internal/registry"
	"github.com/envops/incidentd/internal/semstore"
)

const collectionName = "incident_cases"

// ErrNoRegistry is returned by case lookups when no durable ledger is
// configured.
var ErrNoRegistry = errors.New("case registry not configured")

// Engine wires the semantic store and the case registry into the
// store/recall operations.
type Engine struct {
	store          semstore.SemanticStore
	registry       *registry.DB
	embeddingModel string
	defaultTopK    int
}

// NewEngine creates a memory engine. registry may be nil when no
// durable ledger is configured (the semantic store still works).
func NewEngine(store semstore.SemanticStore, reg *registry.DB, embeddingModel string, defaultTopK int) *Engine {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Engine{
		store:          store,
		registry:       reg,
		embeddingModel: embeddingModel,
		defaultTopK:    defaultTopK,
	}
}

// Store saves one resolved case into the semantic store and, when a
// registry is configured, the durable ledger.
func (e *Engine) Store(ctx context.Context, c incident.HistoricalCase) (StoreResult, error) {
	if c.ID == "" {
		return StoreResult{Status: "error", Message: "incident_id is required"},
			fmt.Errorf("incident_id is required")
	}

	doc := semstore.Document{
		ID:      c.ID,
		Content: c.SearchText(),
		Metadata: map[string]string{
			"incident_id":     c.ID,
			"incident_type":   c.Type,
			"facility_id":     c.FacilityID,
			"outcome":         c.Details.Outcome,
			"resolution_time": c.Details.ResolutionTime,
			"cost":            incident.FormatValue(c.Details.Cost),
			"timestamp":       c.Timestamp,
		},
	}

	if err := e.store.Store(ctx, doc); err != nil {
		return StoreResult{Status: "error", Message: err.Error()},
			fmt.Errorf("store case %s: %w", c.ID, err)
	}

	if e.registry != nil {
		if err := e.registry.SaveCase(c); err != nil {
			// The vector write already succeeded; log and keep going
			// rather than leaving the two stores inconsistent on read.
			log.Printf("memory: registry save for %s failed: %v", c.ID, err)
		}
	}

	return StoreResult{
		Status:         "success",
		Message:        fmt.Sprintf("Incident %s stored in memory", c.ID),
		TotalIncidents: e.store.Count(),
	}, nil
}

// Recall finds the cases most similar to the given incident and
// aggregates their patterns. A failing store produces an error-status
// result with an empty match list, never a partial one.
func (e *Engine) Recall(ctx context.Context, inc incident.Incident, topK int) RecallResult {
	if topK <= 0 {
		topK = e.defaultTopK
	}

	queryText := inc.SearchText()

	results, err := e.store.Query(ctx, queryText, topK)
	if err != nil {
		log.Printf("memory: recall query failed: %v", err)
		return RecallResult{
			Status:           "error",
			Message:          err.Error(),
			SimilarIncidents: []SimilarIncident{},
		}
	}

	similar := make([]SimilarIncident, 0, len(results))
	for _, r := range results {
		similar = append(similar, SimilarIncident{
			IncidentID:      r.Metadata["incident_id"],
			IncidentType:    r.Metadata["incident_type"],
			FacilityID:      r.Metadata["facility_id"],
			SimilarityScore: round3(1 - r.Distance),
			Outcome:         r.Metadata["outcome"],
			ResolutionTime:  r.Metadata["resolution_time"],
			Cost:            parseCost(r.Metadata["cost"]),
			Timestamp:       r.Metadata["timestamp"],
			Details:         r.Content,
		})
	}

	patterns := AnalyzePatterns(similar)

	return RecallResult{
		Status:           "success",
		SimilarIncidents: similar,
		Patterns:         &patterns,
		Recommendation:   HistoricalRecommendation(similar, patterns),
		QueryUsed:        queryText,
	}
}

// Stats reports the state of the case memory: the vector-store count
// plus the registry's category and outcome breakdown when one is
// configured.
func (e *Engine) Stats() MemoryStats {
	stats := MemoryStats{
		TotalIncidentsStored: e.store.Count(),
		CollectionName:       collectionName,
		EmbeddingModel:       e.embeddingModel,
		Status:               "active",
	}

	if e.registry != nil {
		reg, err := e.registry.GetStats()
		if err != nil {
			log.Printf("memory: registry stats failed: %v", err)
			return stats
		}
		stats.IncidentTypes = reg.ByCategory
		stats.SuccessfulResolutions = reg.SuccessCount
	}

	return stats
}

// Case returns one stored case from the registry by incident ID.
func (e *Engine) Case(id string) (*incident.HistoricalCase, error) {
	if e.registry == nil {
		return nil, ErrNoRegistry
	}
	return e.registry.GetCase(id)
}

// Cases lists stored cases from the registry, newest first, optionally
// filtered by category.
func (e *Engine) Cases(category string) ([]incident.HistoricalCase, error) {
	if e.registry == nil {
		return nil, ErrNoRegistry
	}
	return e.registry.ListCases(category)
}

func parseCost(s string) int {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(v)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
