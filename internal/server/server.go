// Package server exposes a Resolver over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	numfmt "github.com/goliatone/go-numfmt"
)

// Config holds the listener settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used by `numfmt serve`.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server serves format, resolve and locale listing endpoints.
type Server struct {
	resolver *numfmt.Resolver
	catalog  *numfmt.LocaleCatalog
	logger   numfmt.Logger
	gatherer prometheus.Gatherer
	metrics  *httpMetrics
	router   *mux.Router
	config   Config

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger numfmt.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalog enables the /locales endpoints.
func WithCatalog(catalog *numfmt.LocaleCatalog) Option {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// WithMetrics registers HTTP metrics with reg and serves reg on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.gatherer = reg
			s.metrics = newHTTPMetrics(reg)
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// New builds a Server around resolver.
func New(resolver *numfmt.Resolver, opts ...Option) (*Server, error) {
	if resolver == nil {
		return nil, errors.New("server: resolver is required")
	}

	s := &Server{
		resolver: resolver,
		logger:   numfmt.NopLogger(),
		config:   DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware, s.metricsMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/format", s.handleFormat).Methods(http.MethodGet)
	r.HandleFunc("/format/{format}", s.handleFormat).Methods(http.MethodGet)
	r.HandleFunc("/resolve", s.handleResolve).Methods(http.MethodGet)
	r.HandleFunc("/formats", s.handleFormats).Methods(http.MethodGet)

	if s.catalog != nil {
		r.HandleFunc("/locales", s.handleLocales).Methods(http.MethodGet)
		r.HandleFunc("/locales/{locale}", s.handleLocale).Methods(http.MethodGet)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no route for %s", req.URL.Path))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// Start listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.logger.Info("starting server", "addr", s.config.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped", "addr", s.config.Addr)
	return nil
}
