// Package httpserver provides the HTTP REST API server for the paper search service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/observability"
	"github.com/helixir/paper-search-service/internal/papersources"
)

// defaultHeartbeatInterval is how long a progress stream may stay silent
// before a heartbeat event is written.
const defaultHeartbeatInterval = time.Second

// Searcher runs federated searches. It is implemented by search.Coordinator.
type Searcher interface {
	FederatedSearch(ctx context.Context, query string, sources []domain.SourceDescriptor, maxResults int) ([]domain.Paper, error)
	SearchWithProgress(ctx context.Context, query string, sources []domain.SourceDescriptor, maxResults int) (<-chan domain.ProgressEvent, error)
}

// Catalog lists the specialized sources. It is implemented by papersources.Registry.
type Catalog interface {
	All() []papersources.CatalogEntry
	EnabledCount() int
}

// Server is the HTTP REST API server.
type Server struct {
	router            chi.Router
	httpServer        *http.Server
	searcher          Searcher
	catalog           Catalog
	metrics           *observability.Metrics
	logger            zerolog.Logger
	cors              CORSConfig
	heartbeatInterval time.Duration
}

// Config holds HTTP server configuration.
type Config struct {
	Address           string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	HeartbeatInterval time.Duration
	CORS              CORSConfig
}

// CORSConfig configures cross-origin access for the browser client.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           int
}

// NewServer creates a new HTTP server with all dependencies.
// The metrics parameter may be nil (metrics recording will be skipped).
func NewServer(
	cfg Config,
	searcher Searcher,
	catalog Catalog,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}

	s := &Server{
		searcher:          searcher,
		catalog:           catalog,
		metrics:           metrics,
		logger:            logger.With().Str("component", "http-server").Logger(),
		cors:              cfg.CORS,
		heartbeatInterval: cfg.HeartbeatInterval,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(requestLoggerMiddleware(s.logger))
	r.Use(corsMiddleware(s.cors))
	r.Use(jsonContentTypeMiddleware)

	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/paper-search", func(r chi.Router) {
		r.Post("/search", s.searchPapers)
		r.Get("/sources", s.listSources)
		r.Get("/sources-with-status", s.listSourcesWithStatus)
		r.Post("/download", s.resolveDownload)
		r.Post("/search-with-progress", s.searchWithProgress)
	})

	return r
}

// corsMiddleware builds the CORS handler. Without configured origins every
// origin is allowed, without credentials.
func corsMiddleware(cfg CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Correlation-ID", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readinessHandler reports ready once the search dependencies are wired.
// Upstream databases are not probed; a failing source only degrades results.
func (s *Server) readinessHandler(w http.ResponseWriter, _ *http.Request) {
	if s.searcher == nil || s.catalog == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"enabled_sources": s.catalog.EnabledCount(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Detail: message})
}
