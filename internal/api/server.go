// Package api serves one project over HTTP. Every request runs under a single
// mutex so the project keeps exactly one writer.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/huangsam/analyzer/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Server owns the project being served.
type Server struct {
	mu       sync.Mutex
	project  *core.Project
	logger   *slog.Logger
	metrics  *apiMetrics
	registry *prometheus.Registry
}

// NewServer wraps an opened project. Metrics go to a private registry so
// several servers can coexist in one process.
func NewServer(p *core.Project, logger *slog.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		project:  p,
		logger:   logger,
		metrics:  newMetrics(reg),
		registry: reg,
	}
	p.Subscribe(s.metrics.observe)
	s.metrics.specimens.Set(float64(len(p.Specimens())))
	return s
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving project", "addr", addr, "project", s.project.Name(), "path", s.project.Path())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// read runs fn with the project locked.
func (s *Server) read(fn func(p *core.Project) any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.project)
}

// mutate runs fn with the project locked, counts the outcome and writes the response.
func (s *Server) mutate(w http.ResponseWriter, kind string, status int, fn func(p *core.Project) (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := fn(s.project)
	if err != nil {
		s.metrics.mutations.WithLabelValues(kind, "error").Inc()
		writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues(kind, "ok").Inc()
	s.metrics.specimens.Set(float64(len(s.project.Specimens())))
	if body == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, body)
}
