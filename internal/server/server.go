package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/semlens/semlens/pkg/engine"
)

// Server holds the HTTP interface and the underlying visibility Engine.
type Server struct {
	Engine *engine.Engine

	httpServer *http.Server
	authToken  string
	precision  engine.Precision
}

// NewServer initializes the HTTP server around an existing Engine. An empty
// authToken disables authentication, which is the expected setup when the
// daemon runs on localhost next to the renderer.
func NewServer(eng *engine.Engine, cfg *Config) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine must not be nil")
	}

	s := &Server{
		Engine:    eng,
		authToken: cfg.HTTP.AuthToken,
		precision: cfg.Precision(),
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain middlewares: Recovery -> Logging -> Auth -> Mux
	// Order matters! Recovery must be outer-most to catch everything.

	var handler http.Handler = mux

	// 1. Auth (Inner)
	handler = s.authMiddleware(handler)

	// 2. Logging (Middle) - Logs duration and status
	handler = s.LoggingMiddleware(handler)

	// 3. Recovery (Outer) - Catches panics
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("/", handler)
	s.httpServer = &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: rootMux,
	}

	return s, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully. In-flight decision requests get
// five seconds to finish.
func (s *Server) Shutdown() {
	slog.Info("starting graceful shutdown of HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
