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

	"github.com/arjunrk/govdoc-intel/internal/config"
	"github.com/arjunrk/govdoc-intel/internal/db"
	"github.com/arjunrk/govdoc-intel/internal/extractions"
	"github.com/arjunrk/govdoc-intel/internal/ocr"
	"github.com/arjunrk/govdoc-intel/internal/pipeline"
	"github.com/arjunrk/govdoc-intel/internal/rag"
	"github.com/arjunrk/govdoc-intel/internal/retrieval"
	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

// Server is the govdoc HTTP API: document ingestion, extraction records,
// and retrieval-augmented chat over the indexed corpus.
type Server struct {
	cfg        *config.Config
	db         *db.DB
	store      *extractions.Store
	engine     ocr.Engine
	pipe       *pipeline.Pipeline
	index      *vectorindex.Index
	retriever  *retrieval.Service
	agent      *rag.Agent
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies wired.
func New(cfg *config.Config, database *db.DB, engine ocr.Engine, pipe *pipeline.Pipeline, index *vectorindex.Index, retriever *retrieval.Service, agent *rag.Agent) *Server {
	s := &Server{
		cfg:       cfg,
		db:        database,
		store:     extractions.NewStore(database),
		engine:    engine,
		pipe:      pipe,
		index:     index,
		retriever: retriever,
		agent:     agent,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/api/health", s.handleHealth)

	r.Post("/api/documents", s.handleUpload)
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/stats", s.handleStats)

	extractions.RegisterRoutes(r, s.store)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.index.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"ocr_engine":     s.engine.Name(),
		"llm":            s.agent.Availability().String(),
		"chunks_indexed": stats.TotalChunks,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("counting extractions: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents":    count,
		"vector_index": s.index.Stats(),
	})
}

// Start begins listening on the configured host and port.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("govdoc server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
