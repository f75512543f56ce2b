package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/dutylog"
	"github.com/pkordes/trucker-logbook/internal/lock"
	"github.com/pkordes/trucker-logbook/internal/repo"
	"github.com/pkordes/trucker-logbook/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset field panics, which flags an
// unexpected repo call.

type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged    func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	findByLookup func(ctx context.Context, l domain.TripLookup) (domain.Trip, error)
	update       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) FindByLookup(ctx context.Context, l domain.TripLookup) (domain.Trip, error) {
	return m.findByLookup(ctx, l)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockConfigurationRepo struct {
	getByTripID func(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error)
	upsert      func(ctx context.Context, c domain.Configuration) (domain.Configuration, error)
}

func (m *mockConfigurationRepo) GetByTripID(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error) {
	return m.getByTripID(ctx, tripID)
}
func (m *mockConfigurationRepo) Upsert(ctx context.Context, c domain.Configuration) (domain.Configuration, error) {
	return m.upsert(ctx, c)
}

type mockLogEntryRepo struct {
	listByTripID   func(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error)
	bulkInsert     func(ctx context.Context, entries []domain.LogEntry) (int64, error)
	deleteByTripID func(ctx context.Context, tripID uuid.UUID) (int64, error)
	create         func(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error)
	getByID        func(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error)
	delete         func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockLogEntryRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockLogEntryRepo) BulkInsert(ctx context.Context, entries []domain.LogEntry) (int64, error) {
	return m.bulkInsert(ctx, entries)
}
func (m *mockLogEntryRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return m.deleteByTripID(ctx, tripID)
}
func (m *mockLogEntryRepo) Create(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error) {
	return m.create(ctx, e)
}
func (m *mockLogEntryRepo) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error) {
	return m.getByID(ctx, tripID, id)
}
func (m *mockLogEntryRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

type mockSummaryRepo struct {
	upsert                  func(ctx context.Context, s domain.DailySummary) (domain.DailySummary, error)
	getByTripAndDate        func(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.DailySummary, error)
	getByID                 func(ctx context.Context, id uuid.UUID) (domain.DailySummary, error)
	listByTripID            func(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error)
	deleteByTripExceptDates func(ctx context.Context, tripID uuid.UUID, keep []time.Time) (int64, error)
}

func (m *mockSummaryRepo) Upsert(ctx context.Context, s domain.DailySummary) (domain.DailySummary, error) {
	return m.upsert(ctx, s)
}
func (m *mockSummaryRepo) GetByTripAndDate(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.DailySummary, error) {
	return m.getByTripAndDate(ctx, tripID, date)
}
func (m *mockSummaryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DailySummary, error) {
	return m.getByID(ctx, id)
}
func (m *mockSummaryRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockSummaryRepo) DeleteByTripExceptDates(ctx context.Context, tripID uuid.UUID, keep []time.Time) (int64, error) {
	return m.deleteByTripExceptDates(ctx, tripID, keep)
}

type mockAdminRepo struct {
	resetAll func(ctx context.Context) error
}

func (m *mockAdminRepo) ResetAll(ctx context.Context) error { return m.resetAll(ctx) }

// mockTransactor hands fn the same repos it was built with and records
// whether the unit of work committed.
type mockTransactor struct {
	repos     repo.Repos
	committed int
}

func (m *mockTransactor) WithinTx(_ context.Context, fn func(repo.Repos) error) error {
	if err := fn(m.repos); err != nil {
		return err
	}
	m.committed++
	return nil
}

// mockLocker counts lock and unlock calls per key; lockErr, if set, fails Lock.
// leaseErr is what every granted lease reports from Err.
type mockLocker struct {
	mu       sync.Mutex
	lockErr  error
	leaseErr error
	locked   []string
	unlocked int
}

func (m *mockLocker) Lock(_ context.Context, key string) (lock.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	m.locked = append(m.locked, key)
	return &mockLease{locker: m}, nil
}

type mockLease struct {
	locker *mockLocker
}

func (l *mockLease) Unlock() {
	l.locker.mu.Lock()
	l.locker.unlocked++
	l.locker.mu.Unlock()
}

func (l *mockLease) Err() error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	return l.locker.leaseErr
}

type mockGenerator struct {
	generate func(ctx context.Context, in dutylog.Input, rng dutylog.Rand) ([]domain.LogEntry, error)
}

func (m *mockGenerator) Generate(ctx context.Context, in dutylog.Input, rng dutylog.Rand) ([]domain.LogEntry, error) {
	return m.generate(ctx, in, rng)
}

// compile-time checks: every double must satisfy the interface it replaces.
var (
	_ repo.TripRepo          = (*mockTripRepo)(nil)
	_ repo.ConfigurationRepo = (*mockConfigurationRepo)(nil)
	_ repo.LogEntryRepo      = (*mockLogEntryRepo)(nil)
	_ repo.SummaryRepo       = (*mockSummaryRepo)(nil)
	_ repo.AdminRepo         = (*mockAdminRepo)(nil)
	_ repo.Transactor        = (*mockTransactor)(nil)
	_ lock.Locker            = (*mockLocker)(nil)
	_ service.LogGenerator   = (*mockGenerator)(nil)
	_ service.LogGenerator   = (*dutylog.Generator)(nil)
)

// ---- shared fixtures -------------------------------------------------------

func validTrip() domain.Trip {
	return domain.Trip{
		ID:                uuid.New(),
		StartLocation:     "Miami, FL",
		PickupLocation:    "Memphis, TN",
		DropoffLocation:   "Los Angeles, CA",
		StartDate:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CurrentCycleHours: 10,
	}
}

// tripRepoWith returns a TripRepo whose GetByID knows exactly one trip.
func tripRepoWith(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id == trip.ID {
				return trip, nil
			}
			return domain.Trip{}, domain.ErrNotFound
		},
	}
}
