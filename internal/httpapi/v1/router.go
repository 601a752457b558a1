// Package v1 wires the HTTP surface of the lease accounting service.
// It keeps handlers thin, delegating business rules to the service layer
// and all financial math to the engine.
package v1

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/leasebook/leasebook/internal/service/contract"
	"github.com/leasebook/leasebook/internal/service/posting"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	contracts contract.Service
	postings  *posting.Service
	ready     ReadyChecker
	log       *slog.Logger
	rt        *chi.Mux
}

// New constructs the HTTP server with routes and middleware. apiToken
// enables bearer auth on the v1 API when non-empty; ready may be nil when
// the backing store has no connectivity to check.
func New(repo contract.Repo, writer contract.Writer, postings *posting.Service, ready ReadyChecker, logger *slog.Logger, apiToken string) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		contracts: contract.New(repo, writer),
		postings:  postings,
		ready:     ready,
		log:       logger,
		rt:        r,
	}
	s.routes(apiToken)
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes(apiToken string) {
	s.rt.Route("/v1", func(r chi.Router) {
		if apiToken != "" {
			r.Use(requireBearer(apiToken))
		}
		// Leases
		r.Post("/leases", s.postLease)
		r.Get("/leases", s.listLeases)
		r.Get("/leases/{id}", s.getLease)
		r.Patch("/leases/{id}/status", s.updateLeaseStatus)
		r.Post("/leases/{id}/modifications", s.postModification)
		// Derived artifacts
		r.Get("/leases/{id}/schedule", s.getSchedule)
		r.Get("/leases/{id}/entries", s.getEntries)
		r.Get("/leases/{id}/pv", s.getPresentValue)
		// Chart of accounts
		r.Get("/accounts", s.getAccounts)
		r.Put("/accounts", s.replaceAccounts)
		// Reporting
		r.Get("/reports/summary", s.getSummary)
		r.Get("/rates", s.getRates)
	})
	// Health and metrics (unversioned, unauthenticated)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
