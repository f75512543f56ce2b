// Package handler implements the HTTP handlers for the Trucker Logbook API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, log_entry.go, etc.) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// *service.TripService satisfies it. Interfaces live in this consumer package
// so handler tests can inject mocks without a database.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetDetail(ctx context.Context, id uuid.UUID) (service.TripDetail, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Lookup(ctx context.Context, l domain.TripLookup) (service.TripMatch, error)
}

// ConfigurationServicer is satisfied by *service.ConfigurationService.
type ConfigurationServicer interface {
	Get(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error)
	Upsert(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error)
}

// LogEntryServicer is satisfied by *service.LogEntryService.
type LogEntryServicer interface {
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error)
	Create(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error)
	GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error)
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// LogbookServicer is satisfied by *service.LogbookService.
type LogbookServicer interface {
	GenerateLogs(ctx context.Context, tripID uuid.UUID) error
	RecalculateSummaries(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error)
	ListSummaries(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error)
	GetSummary(ctx context.Context, id uuid.UUID) (domain.DailySummary, error)
}

// Server holds the services behind every API endpoint.
type Server struct {
	trips   TripServicer
	configs ConfigurationServicer
	entries LogEntryServicer
	logbook LogbookServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil log uses slog.Default().
func NewServer(trips TripServicer, configs ConfigurationServicer, entries LogEntryServicer, logbook LogbookServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, configs: configs, entries: entries, logbook: logbook, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Routes returns a router serving every API endpoint. Cross-cutting
// middleware (request IDs, logging, CORS) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Post("/lookup", s.LookupTrip)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/configuration", s.GetConfiguration)
			r.Put("/configuration", s.PutConfiguration)

			r.Get("/log-entries", s.ListLogEntries)
			r.Post("/log-entries", s.CreateLogEntry)
			r.Get("/log-entries/{entryId}", s.GetLogEntry)
			r.Delete("/log-entries/{entryId}", s.DeleteLogEntry)

			r.Post("/generate-logs", s.GenerateLogs)
			r.Get("/daily-summaries", s.ListDailySummaries)
			r.Post("/daily-summaries/recalculate", s.RecalculateDailySummaries)
		})
	})

	r.Get("/daily-summaries/{summaryId}", s.GetDailySummary)
	return r
}
