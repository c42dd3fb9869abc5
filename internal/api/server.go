// Package api serves dependency metadata queries over HTTP.
//
// The server exposes the same four queries as the CLI. Responses use the
// JSON shape a host application receives from the extension:
//
//	GET /healthz
//	GET /v1/project/{locks|configs}?path=/abs/project
//	GET /v1/packages/{locks|configs}/{name}?version=1.0.0
//	GET /v1/reports?limit=20
//
// Scoped package names may be sent either escaped (@scope%2Fpkg) or as two
// path segments (@scope/pkg).
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/farelock/pkg/fare"
	"github.com/matzehuels/farelock/pkg/store"
)

// DefaultListen is the address used when Config.Listen is empty.
const DefaultListen = "127.0.0.1:8080"

// Config holds API server configuration.
type Config struct {
	Listen string
	// Record saves a report for every answered query.
	Record bool
	// HistoryLimit caps /v1/reports when the request names no limit.
	HistoryLimit int
}

// Server answers queries with a fare.Extension.
type Server struct {
	config    Config
	ext       fare.Extension
	store     store.Store
	logger    *log.Logger
	server    *http.Server
	startedAt time.Time
}

// New creates a server. A nil store records nothing and a nil logger
// discards output.
func New(config Config, ext fare.Extension, st store.Store, logger *log.Logger) *Server {
	if config.Listen == "" {
		config.Listen = DefaultListen
	}
	if st == nil {
		st = store.NewNullStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		config:    config,
		ext:       ext,
		store:     st,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.config.Listen,
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		// Registry queries run npm install inside the request.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("API server starting", "listen", s.config.Listen)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("API server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/project/{kind:locks|configs}", s.handleProject)
		r.Get("/packages/{kind:locks|configs}/{name}", s.handlePackage)
		r.Get("/packages/{kind:locks|configs}/{scope}/{name}", s.handlePackage)
		r.Get("/reports", s.handleReports)
	})

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
