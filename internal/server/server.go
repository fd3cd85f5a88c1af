// Package server exposes the metric registry over HTTP in the text
// exposition format. Every path and method serves the same scrape
// content; scrapes run concurrently with each other and with the
// collection scheduler.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vitalis-app/exporter/internal/metrics"
)

// Server serves scrape requests for one registry.
type Server struct {
	registry *metrics.Registry
	logger   *zap.Logger
	httpSrv  *http.Server
}

// New creates a Server listening on addr.
func New(addr string, registry *metrics.Registry, logger *zap.Logger) *Server {
	s := &Server{
		registry: registry,
		logger:   logger,
	}

	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(s.handleScrape)

	s.httpSrv = &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the scrape handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run starts serving and blocks until the context is cancelled, then
// shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.logger.Info("Serving metrics", zap.String("addr", s.httpSrv.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleScrape renders the registry snapshot into the text exposition
// format. An encoding failure yields a 500 and affects no other request.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := metrics.WriteText(&buf, s.registry.Snapshot()); err != nil {
		s.logger.Error("Failed to encode metrics", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", metrics.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("Failed to write scrape response", zap.Error(err))
	}
}
