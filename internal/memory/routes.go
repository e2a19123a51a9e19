package memory

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/envops/incidentd/internal/incident"
)

// RegisterRoutes mounts the memory API routes.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Route("/api/agents/memory", func(r chi.Router) {
		r.Post("/store", handleStore(engine))
		r.Post("/recall", handleRecall(engine))
		r.Get("/stats", handleStats(engine))
		r.Get("/cases", handleListCases(engine))
		r.Get("/cases/{incidentID}", handleGetCase(engine))
	})
}

func handleStore(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c incident.HistoricalCase
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if c.ID == "" {
			http.Error(w, `{"error":"incident_id is required"}`, http.StatusBadRequest)
			return
		}

		result, err := engine.Store(r.Context(), c)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

type recallRequest struct {
	CurrentIncident incident.Incident `json:"current_incident"`
	TopK            int               `json:"top_k"`
}

func handleRecall(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		result := engine.Recall(r.Context(), req.CurrentIncident, req.TopK)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func handleStats(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.Stats())
	}
}

func handleListCases(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := engine.Cases(r.URL.Query().Get("category"))
		if err != nil {
			if err == ErrNoRegistry {
				http.Error(w, `{"error":"case registry not configured"}`, http.StatusServiceUnavailable)
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cases)
	}
}

func handleGetCase(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := engine.Case(chi.URLParam(r, "incidentID"))
		if err != nil {
			switch err {
			case ErrNoRegistry:
				http.Error(w, `{"error":"case registry not configured"}`, http.StatusServiceUnavailable)
			default:
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c)
	}
}
