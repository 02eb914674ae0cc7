// Package server exposes import map generation over HTTP.
//
// Routes:
//
//	GET  /healthz                     liveness probe
//	GET  /v1/cdns                     supported providers
//	POST /v1/importmap                body is a package.json
//	GET  /v1/importmap?manifest=URL   fetch a remote package.json
//
// Both importmap routes accept cdn, dev, peer and optional query
// parameters and answer with an application/importmap+json document.
// Failures are JSON objects of the form {"code": ..., "message": ...}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/pipeline"
)

const (
	// maxManifestSize caps uploaded package.json bodies.
	maxManifestSize = 1 << 20

	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner     *pipeline.Runner
	logger     *log.Logger
	defaultCDN importmap.CDN
	router     chi.Router
}

// New creates a Server. defaultCDN is used when a request has no cdn
// parameter.
func New(runner *pipeline.Runner, logger *log.Logger, defaultCDN importmap.CDN) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:     runner,
		logger:     logger,
		defaultCDN: defaultCDN,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/cdns", s.handleCDNs)
		r.Get("/importmap", s.handleFetch)
		r.Post("/importmap", s.handleUpload)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
