package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/livedom-dev/livedom/pkg/middleware"
	"github.com/livedom-dev/livedom/pkg/record"
	"github.com/livedom-dev/livedom/pkg/store"
)

// Server is the sink server: HTTP read API plus websocket ingest.
type Server struct {
	config   *Config
	registry *Registry
	recorder record.Recorder
	logger   *slog.Logger

	router   chi.Router
	upgrader websocket.Upgrader

	promReg *prometheus.Registry
	metrics *sinkMetrics

	httpServer *http.Server

	mu    sync.Mutex
	conns map[*conn]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithSnapshotStore persists display documents so they survive a
// restart. Snapshots expire after ttl.
func WithSnapshotStore(s store.SnapshotStore, ttl time.Duration) Option {
	return func(srv *Server) {
		srv.registry.snapshots = s
		srv.registry.snapshotTTL = ttl
	}
}

// WithRecorder archives incoming frames.
func WithRecorder(r record.Recorder) Option {
	return func(srv *Server) {
		srv.recorder = r
	}
}

// WithServerLogger sets the logger. Default: slog.Default() with a
// component attribute.
func WithServerLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		srv.logger = logger
	}
}

// New creates a sink server with the given configuration.
func New(config *Config, opts ...Option) *Server {
	config = config.withDefaults()

	promReg := prometheus.NewRegistry()
	s := &Server{
		config:   config,
		registry: NewRegistry(nil, 0),
		recorder: record.NopRecorder{},
		logger:   slog.Default().With("component", "sink"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		promReg: promReg,
		metrics: newSinkMetrics(promReg),
		conns:   make(map[*conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	return s
}

// routes builds the chi router.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Prometheus(middleware.WithRegistry(s.promReg)))
	r.Use(middleware.OpenTelemetry(middleware.WithRequestFilter(func(req *http.Request) bool {
		return req.URL.Path != "/healthz" && req.URL.Path != "/metrics"
	})))

	r.Get("/healthz", s.handleHealthz)
	if s.config.Metrics {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
	}
	r.Get("/displays", s.handleListDisplays)
	r.Get("/displays/{id}", s.handleGetDisplay)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Registry returns the display registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"displays": s.registry.Count(),
	})
}

func (s *Server) handleListDisplays(w http.ResponseWriter, r *http.Request) {
	ids := s.registry.IDs()
	sort.Strings(ids)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"displays": ids})
}

func (s *Server) handleGetDisplay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	docJSON, ok := s.registry.Document(r.Context(), id)
	if !ok {
		http.Error(w, "display not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(docJSON)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(s, wsConn)

	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	s.metrics.activeConnections.Inc()

	s.logger.Info("producer connected", "remote", wsConn.RemoteAddr())
	c.start()
}

// removeConn unregisters a finished connection.
func (s *Server) removeConn(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.metrics.activeConnections.Dec()
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("sink server starting", "address", s.config.Address)
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

// Shutdown gracefully closes connections, flushes the recorder, and
// stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	conns := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.close("server shutting down")
	}

	if err := s.recorder.Close(); err != nil {
		s.logger.Error("recorder close failed", "error", err)
	}
	if s.registry.snapshots != nil {
		if err := s.registry.snapshots.Close(); err != nil {
			s.logger.Error("snapshot store close failed", "error", err)
		}
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("sink server shutdown complete")
	return nil
}
