// Package api serves the church backend's JSON API over HTTP. It backs local
// development and the client's end-to-end tests.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/metrics"
	"github.com/dmitrijs2005/flock/internal/server/catalog"
	"github.com/dmitrijs2005/flock/internal/server/users"
)

const (
	metricsSubsystem = "http_server"
	shutdownTimeout  = 10 * time.Second
	maxBodySize      = 1 << 20
)

type Server struct {
	address   string
	users     *users.Service
	catalog   *catalog.Store
	logger    logging.Logger
	recorder  metrics.Recorder
	gatherer  prometheus.Gatherer
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

// NewServer wires the handlers. Request metrics are registered on reg and
// exposed at /metrics.
func NewServer(address string, l logging.Logger, us *users.Service, cs *catalog.Store, reg *prometheus.Registry) *Server {
	return &Server{
		address:   address,
		users:     us,
		catalog:   cs,
		logger:    l.With("module", "http_server"),
		recorder:  metrics.NewCollector(reg, metricsSubsystem),
		gatherer:  reg,
		validate:  newValidator(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Handler returns the router with every route and middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/user/login", s.login)
		r.Post("/user/register", s.register)
		r.With(s.requireToken).Post("/user/update-details", s.updateDetails)

		r.Get("/outreach", s.listOutreaches)
		r.Get("/outreach/", s.listOutreaches)
		r.Get("/ministry", s.listMinistries)
		r.Get("/media", s.listMedia)
	})

	return r
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is done, then shuts down
// gracefully, letting in-flight requests finish.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
