// Package server is the browser-facing HTTP surface: the embedded practice
// page, the passphrase login, the session JSON API, picture and audio
// delivery, and a websocket stream of session snapshots.
package server

import (
	"context"
	"embed"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/auth"
	"codeberg.org/snonux/theni/internal/health"
	"codeberg.org/snonux/theni/internal/observe"
	"codeberg.org/snonux/theni/internal/session"
	"codeberg.org/snonux/theni/internal/vocab"
)

//go:embed static
var staticFiles embed.FS

const shutdownTimeout = 5 * time.Second

// Server wires the session driver to HTTP.
type Server struct {
	driver *session.Driver
	lib    *vocab.Library
	gate   *auth.Gate

	health         *health.Handler
	metrics        *observe.Metrics
	metricsHandler http.Handler
	logger         *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records request durations to m and serves h on /metrics.
func WithMetrics(m *observe.Metrics, h http.Handler) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsHandler = h
	}
}

// WithHealth serves the liveness and readiness probes.
func WithHealth(h *health.Handler) Option {
	return func(s *Server) { s.health = h }
}

// New creates a server. lib must be the library the driver's sequencer uses.
func New(d *session.Driver, lib *vocab.Library, gate *auth.Gate, opts ...Option) *Server {
	s := &Server{
		driver: d,
		lib:    lib,
		gate:   gate,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the complete route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /login", s.handleLogin)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.gate.Require(h))
	}
	protected("GET /api/state", s.handleState)
	protected("POST /api/session/start", s.handleStart)
	protected("POST /api/session/{action}", s.handleCommand)
	protected("GET /api/audio", s.handleAudio)
	protected("GET /images/{word}", s.handleImage)
	protected("GET /ws", s.handleWebsocket)

	if s.health != nil {
		s.health.Register(mux)
	}
	if s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}

	return observe.Middleware(s.metrics, s.logger)(mux)
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
