package serve

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sift-dev/sift/pkg/compiler"
	"github.com/sift-dev/sift/pkg/middleware"
	"github.com/sift-dev/sift/pkg/router"
)

// PageRenderer turns a page match into a response body.
type PageRenderer interface {
	RenderPage(w http.ResponseWriter, r *http.Request, snap *compiler.Snapshot, match *router.Match) error
}

// APIInvoker dispatches a request to a matched API module handler.
type APIInvoker interface {
	InvokeAPI(w http.ResponseWriter, r *http.Request, snap *compiler.Snapshot, match *router.Match) error
}

// Config configures the HTTP server.
type Config struct {
	// Address is the listen address, e.g. ":3000".
	Address string

	// Renderer renders page matches. Defaults to DebugRenderer.
	Renderer PageRenderer

	// Invoker dispatches API matches. Defaults to DebugInvoker.
	Invoker APIInvoker

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// ReloadHandler, when set, is mounted at /_sift/reload. The dev
	// server passes the live-reload WebSocket hub here.
	ReloadHandler http.Handler

	// Metrics mounts /metrics and the Prometheus middleware when true.
	Metrics bool

	// Tracing installs the OpenTelemetry middleware when true.
	Tracing bool

	// ReadHeaderTimeout bounds header parsing. Defaults to 10s.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Defaults to 15s.
	ShutdownTimeout time.Duration
}

// Server serves the live snapshot of a compiled app.
type Server struct {
	source     *compiler.Publisher
	config     Config
	logger     *slog.Logger
	renderer   PageRenderer
	invoker    APIInvoker
	httpServer *http.Server
}

// New creates a Server reading snapshots from the given publisher.
func New(source *compiler.Publisher, config Config) *Server {
	if config.Address == "" {
		config.Address = ":3000"
	}
	if config.ReadHeaderTimeout == 0 {
		config.ReadHeaderTimeout = 10 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 15 * time.Second
	}

	s := &Server{
		source:   source,
		config:   config,
		logger:   config.Logger,
		renderer: config.Renderer,
		invoker:  config.Invoker,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.renderer == nil {
		s.renderer = DebugRenderer{}
	}
	if s.invoker == nil {
		s.invoker = DebugInvoker{}
	}
	return s
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if s.config.Tracing {
		r.Use(middleware.OpenTelemetry())
	}
	if s.config.Metrics {
		r.Use(middleware.Prometheus())
		r.Handle("/metrics", promhttp.Handler())
	}

	if s.config.ReloadHandler != nil {
		r.Handle("/_sift/reload", s.config.ReloadHandler)
	}
	r.Get("/healthz", s.handleHealth)
	r.NotFound(s.dispatch)
	return r
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	return nil
}
