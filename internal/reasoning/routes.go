package reasoning

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/envops/incidentd/internal/incident"
)

// RegisterRoutes mounts the reasoning API routes.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Route("/api/agents/reasoning", func(r chi.Router) {
		r.Post("/analyze", handleAnalyze(engine))
	})
}

func handleAnalyze(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inc incident.Incident
		if err := json.NewDecoder(r.Body).Decode(&inc); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if inc.Type == "" {
			http.Error(w, `{"error":"incident_type is required"}`, http.StatusBadRequest)
			return
		}
		if inc.Urgency == "" {
			inc.Urgency = "MEDIUM"
		}

		result := engine.Analyze(r.Context(), inc)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
