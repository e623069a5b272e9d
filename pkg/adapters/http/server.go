package http

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/supportkit/pathfinder"
	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/pkg/observability"
	"github.com/supportkit/pathfinder/pkg/session"
)

//go:embed openapi.yaml
var rawSpec []byte

var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, err
	}
	return doc, nil
})

// GetSwagger returns the parsed and validated OpenAPI document served at /openapi.yaml.
func GetSwagger() (*openapi3.T, error) {
	return loadSpec()
}

// Server exposes the engine and its sessions over HTTP.
type Server struct {
	engine     *pathfinder.Engine
	navigation *session.Navigation
	streams    *StreamManager
	metrics    *observability.Metrics
	logger     *slog.Logger
	router     chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves m at /metrics and keeps the active session gauge current.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the HTTP server. Every session change is broadcast to /sessions/{id}/events subscribers.
func NewServer(engine *pathfinder.Engine, navigation *session.Navigation, opts ...Option) *Server {
	s := &Server{
		engine:     engine,
		navigation: navigation,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	navigation.OnChange(s.broadcast)
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the route tree, e.g. for documentation checks.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(enableCORS)

	r.Get("/health", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Get("/openapi.yaml", s.handleSpec)
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/flow", s.handleFlow)
	r.Get("/flow/mermaid", s.handleMermaid)

	r.Get("/sessions", s.handleListSessions)
	r.Post("/sessions", s.handleCreateSession)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Delete("/sessions/{id}", s.handleDeleteSession)
	r.Post("/sessions/{id}/select", s.handleSelect)
	r.Post("/sessions/{id}/back", s.handleBack)
	r.Post("/sessions/{id}/reset", s.handleReset)
	r.Post("/sessions/{id}/generate", s.handleGenerate)
	r.Get("/sessions/{id}/events", s.handleEvents)

	r.Get("/logs", s.handleLogs)
	r.Get("/logs/usage", s.handleUsage)

	r.Post("/assist/analysis", s.handleAnalysis)
	r.Post("/assist/audit", s.handleAudit)
	r.Post("/assist/rca", s.handleRCA)
	r.Post("/assist/email", s.handleEmail)
	r.Post("/assist/menu/extract", s.handleMenuExtract)
	r.Post("/assist/menu/check", s.handleMenuCheck)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "pathfinder-http",
		"version":     pathfinder.Version,
		"api_version": apiVersion,
		"flow":        s.engine.Name,
		"language":    s.engine.Trigger().Language(),
	})
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	if _, err := GetSwagger(); err != nil {
		s.logger.Error("Failed to load OpenAPI spec", "error", err)
		jsonError(w, "failed to load spec", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(rawSpec)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Pathfinder API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
