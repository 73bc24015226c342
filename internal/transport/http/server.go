package http

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"bowling/internal/app"
	"bowling/internal/config"
	"bowling/internal/metrics"
	"bowling/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router chi.Router
	hub    *app.GameHub
	config *config.Config
	logger *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, hub *app.GameHub, logger *zap.Logger) *Server {
	s := &Server{
		hub:    hub,
		config: cfg,
		logger: logger,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Route("/games/{gameId}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Delete("/", s.handleDeleteGame)
			r.Post("/rolls", s.handleRecordRoll)
			r.Get("/score", s.handleGetScore)
			r.Get("/frames", s.handleGetFrames)
			r.Post("/finish", s.handleFinishGame)
		})

		r.Get("/results", s.handleTopResults)
		r.Get("/results/{resultId}", s.handleGetResult)

		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Method(http.MethodGet, "/ws", ws.NewHandler(s.hub, s.logger))

	return r
}

// requestLogger logs each request and records its metrics under the matched route pattern
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		pattern := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			pattern = rctx.RoutePattern()
		}
		metrics.ObserveHTTP(r.Method, pattern, wrapped.statusCode, duration)

		// Scrapes are noisy outside development
		if s.config.IsDevelopment() || !isMetricsRequest(r.URL.Path) {
			s.logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", duration),
			)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func isMetricsRequest(path string) bool {
	return strings.HasPrefix(path, "/metrics")
}
