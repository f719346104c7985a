// Package httpapi wires the HTTP surface of the khata service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/khatalabs/khata/internal/khata"
	"github.com/khatalabs/khata/internal/service/books"
	"github.com/khatalabs/khata/internal/service/entry"
	"github.com/khatalabs/khata/internal/service/party"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	partySvc party.Service
	entrySvc entry.Service
	books    books.Service
	snap     SnapshotStore
	company  CompanyStore
	log      *slog.Logger
	rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware. The logger is
// used by request/response logging and panic recovery.
func New(prepo party.Repo, pwriter party.Writer, erepo entry.Repo, ewriter entry.Writer, brepo books.Repo, snap SnapshotStore, company CompanyStore, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		partySvc: party.New(prepo, pwriter),
		entrySvc: entry.New(erepo, ewriter),
		books:    books.New(brepo),
		snap:     snap,
		company:  company,
		rt:       r,
		log:      logger,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
	// Parties (v1): two collections, same handlers
	s.rt.Route("/v1/clients", s.partyRoutes(khata.PartyTypeClient))
	s.rt.Route("/v1/vendors", s.partyRoutes(khata.PartyTypeVendor))
	// Entries (v1)
	s.rt.With(jsonOnly).Post("/v1/entries", s.postEntry)
	s.rt.Get("/v1/entries", s.listEntries)
	s.rt.Get("/v1/entries/{id}", s.getEntry)
	s.rt.With(jsonOnly).Put("/v1/entries/{id}", s.putEntry)
	s.rt.Delete("/v1/entries/{id}", s.deleteEntry)
	// Reports (v1)
	s.rt.Get("/v1/reports/totals", s.getTotals)
	s.rt.Get("/v1/reports/balance-sheet", s.getBalanceSheet)
	s.rt.Get("/v1/reports/cash-flow", s.getCashFlow)
	// Company (v1)
	s.rt.Get("/v1/company", s.getCompany)
	s.rt.With(jsonOnly).Put("/v1/company", s.putCompany)
	// Snapshot import/export (v1)
	s.rt.Get("/v1/export", s.exportSnapshot)
	s.rt.With(jsonOnly).Post("/v1/import", s.importSnapshot)
	s.rt.Get("/v1/export/csv", s.exportCSV)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}

// partyRoutes mounts the CRUD and balance endpoints for one collection.
func (s *Server) partyRoutes(t khata.PartyType) func(chi.Router) {
	return func(r chi.Router) {
		r.With(jsonOnly).Post("/", s.postParty(t))
		r.Get("/", s.listParties(t))
		r.Get("/{id}", s.getParty(t))
		r.With(jsonOnly).Put("/{id}", s.putParty(t))
		r.Delete("/{id}", s.deleteParty(t))
		r.Get("/{id}/balance", s.getPartyBalance(t))
	}
}
