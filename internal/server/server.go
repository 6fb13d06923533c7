// Package server exposes the extraction pipeline over HTTP: document
// upload spawns an asynchronous job, job state is polled or streamed, and
// prometheus metrics cover both the HTTP surface and the pipeline.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/critex/internal/extract"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	extractor   *extract.Extractor
	registry    *extract.Registry
	corsOrigin  string
	maxUploadMB int64
	uploadDir   string
	logger      *slog.Logger
	version     string
}

// Config holds server configuration.
type Config struct {
	CORSOrigin  string
	MaxUploadMB int64
	UploadDir   string
	Version     string
}

// NewServer creates a server around an extractor and a job registry.
func NewServer(extractor *extract.Extractor, registry *extract.Registry, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	return &Server{
		extractor:   extractor,
		registry:    registry,
		corsOrigin:  cfg.CORSOrigin,
		maxUploadMB: cfg.MaxUploadMB,
		uploadDir:   cfg.UploadDir,
		logger:      logger,
		version:     cfg.Version,
	}
}

// SetupRoutes registers all endpoints on the given mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("POST /extract", s.corsMiddleware(s.extractHandler))
	mux.HandleFunc("GET /jobs", s.corsMiddleware(s.listJobsHandler))
	mux.HandleFunc("GET /jobs/{id}", s.corsMiddleware(s.jobHandler))
	mux.HandleFunc("GET /jobs/{id}/ws", s.jobWebSocketHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
}
