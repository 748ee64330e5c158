package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cypherswwayinc/phishguardlite/internal/pipeline"
	"github.com/cypherswwayinc/phishguardlite/internal/scoring"
)

// Server is the HTTP API of PhishGuard Lite: scoring, report intake and
// read-only admin endpoints over stored reports and digests.
type Server struct {
	cfg     Config
	router  chi.Router
	logger  *slog.Logger
	scorer  *scoring.Scorer
	batch   *pipeline.BatchProcessor
	metrics *metrics
}

// NewServer creates a Server from cfg.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, ErrNoStore
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scorer := cfg.Scorer
	if scorer == nil {
		scorer = scoring.NewScorer()
	}

	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		logger: logger,
		scorer: scorer,
		batch: pipeline.NewBatchProcessor(scorer,
			pipeline.WithConcurrency(cfg.Concurrency),
			pipeline.WithBatchLogger(logger),
		),
		metrics: newMetrics(),
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)
	r.Use(s.countMiddleware)

	// CORS preflight
	r.Options("/score", s.optionsHandler("POST"))
	r.Options("/report", s.optionsHandler("POST"))
	r.Options("/scan", s.optionsHandler("POST"))

	r.Get("/health", s.handleHealth)
	r.Post("/score", s.handleScore)
	r.Post("/report", s.handleReport)
	r.Post("/scan", s.handleScanPage)

	r.Route("/admin/api", func(r chi.Router) {
		r.Get("/reports", s.handleListReports)
		r.Get("/report/{id}", s.handleGetReport)
		r.Get("/digests", s.handleListDigests)
		r.Get("/digest/{name}", s.handleGetDigest)
	})

	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

// countMiddleware counts requests by matched route pattern once routing is done.
func (s *Server) countMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		s.metrics.requests.WithLabelValues(route, r.Method).Inc()
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
// Request bodies are not logged: report context may carry user data.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("http_request",
		"method", r.Method,
		"path", r.URL.Path,
	)

	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
