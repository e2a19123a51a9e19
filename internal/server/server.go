// Package server hosts the HTTP API. Feature packages own their
// routes; the server wires middleware, CORS, and the service
// description endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/envops/incidentd/internal/analysis"
	"github.com/envops/incidentd/internal/memory"
	"github.com/envops/incidentd/internal/reasoning"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the incident-analysis API server.
type Server struct {
	cfg        Config
	memory     *memory.Engine
	reasoning  *reasoning.Engine
	analysis   *analysis.Engine
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all feature engines wired in.
func New(cfg Config, mem *memory.Engine, res *reasoning.Engine, combined *analysis.Engine) *Server {
	s := &Server{
		cfg:       cfg,
		memory:    mem,
		reasoning: res,
		analysis:  combined,
	}

	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Deliberation can take a while: up to ten completion calls.
	r.Use(middleware.Timeout(5 * time.Minute))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)

	memory.RegisterRoutes(r, s.memory)
	reasoning.RegisterRoutes(r, s.reasoning)
	analysis.RegisterRoutes(r, s.analysis)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"service": "incidentd",
		"version": "1.0.0",
		"endpoints": []string{
			"POST /api/agents/memory/store",
			"POST /api/agents/memory/recall",
			"GET /api/agents/memory/stats",
			"POST /api/agents/reasoning/analyze",
			"POST /api/agents/analyze-with-memory",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("incidentd server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
