package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/handler"
	"github.com/pkordes/trucker-logbook/internal/service"
)

// Test doubles for the handler's service interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getDetail func(ctx context.Context, id uuid.UUID) (service.TripDetail, error)
	list      func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
	lookup    func(ctx context.Context, l domain.TripLookup) (service.TripMatch, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetDetail(ctx context.Context, id uuid.UUID) (service.TripDetail, error) {
	return m.getDetail(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	return m.list(ctx, p)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) Lookup(ctx context.Context, l domain.TripLookup) (service.TripMatch, error) {
	return m.lookup(ctx, l)
}

type mockConfigurationServicer struct {
	get    func(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error)
	upsert func(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error)
}

func (m *mockConfigurationServicer) Get(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error) {
	return m.get(ctx, tripID)
}
func (m *mockConfigurationServicer) Upsert(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error) {
	return m.upsert(ctx, cfg)
}

type mockLogEntryServicer struct {
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error)
	create       func(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error)
	getByID      func(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error)
	delete       func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockLogEntryServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockLogEntryServicer) Create(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error) {
	return m.create(ctx, e)
}
func (m *mockLogEntryServicer) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error) {
	return m.getByID(ctx, tripID, id)
}
func (m *mockLogEntryServicer) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

type mockLogbookServicer struct {
	generateLogs         func(ctx context.Context, tripID uuid.UUID) error
	recalculateSummaries func(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error)
	listSummaries        func(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error)
	getSummary           func(ctx context.Context, id uuid.UUID) (domain.DailySummary, error)
}

func (m *mockLogbookServicer) GenerateLogs(ctx context.Context, tripID uuid.UUID) error {
	return m.generateLogs(ctx, tripID)
}
func (m *mockLogbookServicer) RecalculateSummaries(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error) {
	return m.recalculateSummaries(ctx, tripID)
}
func (m *mockLogbookServicer) ListSummaries(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error) {
	return m.listSummaries(ctx, tripID)
}
func (m *mockLogbookServicer) GetSummary(ctx context.Context, id uuid.UUID) (domain.DailySummary, error) {
	return m.getSummary(ctx, id)
}

// compile-time checks: mocks and real services must satisfy the interfaces.
var (
	_ handler.TripServicer          = (*mockTripServicer)(nil)
	_ handler.ConfigurationServicer = (*mockConfigurationServicer)(nil)
	_ handler.LogEntryServicer      = (*mockLogEntryServicer)(nil)
	_ handler.LogbookServicer       = (*mockLogbookServicer)(nil)
	_ handler.TripServicer          = (*service.TripService)(nil)
	_ handler.ConfigurationServicer = (*service.ConfigurationService)(nil)
	_ handler.LogEntryServicer      = (*service.LogEntryService)(nil)
	_ handler.LogbookServicer       = (*service.LogbookService)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services bundles the mocks for one test; nil fields stay nil.
type services struct {
	trips   *mockTripServicer
	configs *mockConfigurationServicer
	entries *mockLogEntryServicer
	logbook *mockLogbookServicer
}

// newHTTPHandler wires a Server with the given mocks into its router, the way
// main.go wires it in production.
func newHTTPHandler(s services) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var (
		trips   handler.TripServicer
		configs handler.ConfigurationServicer
		entries handler.LogEntryServicer
		logbook handler.LogbookServicer
	)
	if s.trips != nil {
		trips = s.trips
	}
	if s.configs != nil {
		configs = s.configs
	}
	if s.entries != nil {
		entries = s.entries
	}
	if s.logbook != nil {
		logbook = s.logbook
	}
	return handler.NewServer(trips, configs, entries, logbook, log).Routes()
}

// do sends a request through h and returns the recorder. body may be nil.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:                uuid.New(),
		StartLocation:     "Miami, FL",
		PickupLocation:    "Memphis, TN",
		DropoffLocation:   "Los Angeles, CA",
		StartDate:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CurrentCycleHours: 12.5,
		CreatedAt:         time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func entryFixture(tripID uuid.UUID) domain.LogEntry {
	e := domain.LogEntry{
		ID:        uuid.New(),
		TripID:    tripID,
		Timestamp: time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC),
		Status:    domain.Driving,
		Location:  "En Route",
		Remarks:   "Driving",
	}
	e.SetCoordinates(&domain.Coordinates{Lat: 25.7617, Lon: -80.1918})
	return e
}

func summaryFixture(tripID uuid.UUID) domain.DailySummary {
	return domain.DailySummary{
		ID:                uuid.New(),
		TripID:            tripID,
		Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalMilesDriving: 300,
		TotalOffDutyHours: 9.5,
		TotalDrivingHours: 10,
		TotalOnDutyHours:  2.5,
		TotalLines34:      12.5,
	}
}
