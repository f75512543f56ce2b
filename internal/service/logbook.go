package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/dutylog"
	"github.com/pkordes/trucker-logbook/internal/lock"
	"github.com/pkordes/trucker-logbook/internal/metrics"
	"github.com/pkordes/trucker-logbook/internal/repo"
)

// DefaultLockWait bounds how long a request waits for another regeneration
// of the same trip before failing with domain.ErrConflict.
const DefaultLockWait = 5 * time.Second

// LogGenerator produces the unsaved log entries of a trip.
// *dutylog.Generator satisfies it.
type LogGenerator interface {
	Generate(ctx context.Context, in dutylog.Input, rng dutylog.Rand) ([]domain.LogEntry, error)
}

// LogbookService regenerates duty logs and maintains daily summaries.
//
// Every mutation of a trip's logs takes the trip's lock and runs its database
// writes in one transaction, so concurrent requests for the same trip are
// serialized and a failure leaves the previous log and summaries intact.
type LogbookService struct {
	repos    repo.Repos
	tx       repo.Transactor
	locker   lock.Locker
	gen      LogGenerator
	log      *slog.Logger
	newRand  func() dutylog.Rand
	lockWait time.Duration
}

// LogbookOption configures a LogbookService.
type LogbookOption func(*LogbookService)

// WithRandSource sets the factory for the per-run random source.
// Tests use it to make generation deterministic.
func WithRandSource(f func() dutylog.Rand) LogbookOption {
	return func(s *LogbookService) { s.newRand = f }
}

// WithLockWait overrides DefaultLockWait.
func WithLockWait(d time.Duration) LogbookOption {
	return func(s *LogbookService) { s.lockWait = d }
}

// NewLogbookService constructs a LogbookService. repos is used for reads
// outside a transaction; tx for the regenerate-and-summarize unit of work.
// A nil log uses slog.Default().
func NewLogbookService(repos repo.Repos, tx repo.Transactor, locker lock.Locker, gen LogGenerator, log *slog.Logger, opts ...LogbookOption) *LogbookService {
	if log == nil {
		log = slog.Default()
	}
	s := &LogbookService{
		repos:    repos,
		tx:       tx,
		locker:   locker,
		gen:      gen,
		log:      log,
		newRand:  func() dutylog.Rand { return dutylog.NewRand() },
		lockWait: DefaultLockWait,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateLogs discards the trip's log entries, generates a fresh log, stores
// it, and recomputes the trip's daily summaries.
//
// A trip without a stored configuration gets the defaults persisted first.
// Returns domain.ErrNotFound for an unknown trip and domain.ErrConflict if
// another regeneration of the same trip holds the lock past the wait limit.
func (s *LogbookService) GenerateLogs(ctx context.Context, tripID uuid.UUID) (err error) {
	start := time.Now()
	defer func() {
		metrics.LogGenerationsTotal.WithLabelValues(generationResult(err)).Inc()
		metrics.LogGenerationDuration.Observe(time.Since(start).Seconds())
	}()

	lease, err := s.lockTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.LogbookService.GenerateLogs: %w", err)
	}
	defer lease.Unlock()

	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.LogbookService.GenerateLogs: %w", err)
	}
	cfg, err := s.configurationFor(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.LogbookService.GenerateLogs: %w", err)
	}

	// Geocoding happens here, before the transaction opens.
	entries, err := s.gen.Generate(ctx, dutylog.Input{
		TripID:          trip.ID,
		StartDate:       trip.StartDate,
		StartLocation:   trip.StartLocation,
		PickupLocation:  trip.PickupLocation,
		DropoffLocation: trip.DropoffLocation,
		Config:          cfg,
	}, s.newRand())
	if err != nil {
		return fmt.Errorf("service.LogbookService.GenerateLogs: %w", err)
	}

	var written int
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		if _, err := r.LogEntries.DeleteByTripID(ctx, tripID); err != nil {
			return err
		}
		if _, err := r.LogEntries.BulkInsert(ctx, entries); err != nil {
			return err
		}
		summaries, err := s.summarize(ctx, r, tripID, entries)
		if err != nil {
			return err
		}
		written = len(summaries)
		return lease.Err()
	})
	if err != nil {
		return fmt.Errorf("service.LogbookService.GenerateLogs: %w", err)
	}

	metrics.GeneratedEntriesTotal.Add(float64(len(entries)))
	s.log.InfoContext(ctx, "logs generated",
		"trip_id", tripID,
		"entries", len(entries),
		"days", written,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// RecalculateSummaries recomputes the trip's daily summaries from its stored
// log entries, for use after manual entry edits. It returns the stored
// summaries in date order.
func (s *LogbookService) RecalculateSummaries(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error) {
	lease, err := s.lockTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LogbookService.RecalculateSummaries: %w", err)
	}
	defer lease.Unlock()

	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.LogbookService.RecalculateSummaries: %w", err)
	}

	var stored []domain.DailySummary
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		entries, err := r.LogEntries.ListByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		stored, err = s.summarize(ctx, r, tripID, entries)
		if err != nil {
			return err
		}
		return lease.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("service.LogbookService.RecalculateSummaries: %w", err)
	}
	if stored == nil {
		stored = []domain.DailySummary{}
	}
	return stored, nil
}

// ListSummaries returns the trip's daily summaries in date order.
// Returns domain.ErrNotFound if the trip does not exist. Never returns a nil slice.
func (s *LogbookService) ListSummaries(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error) {
	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.LogbookService.ListSummaries: %w", err)
	}
	summaries, err := s.repos.Summaries.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LogbookService.ListSummaries: %w", err)
	}
	if summaries == nil {
		return []domain.DailySummary{}, nil
	}
	return summaries, nil
}

// GetSummary returns a single daily summary by ID.
func (s *LogbookService) GetSummary(ctx context.Context, id uuid.UUID) (domain.DailySummary, error) {
	result, err := s.repos.Summaries.GetByID(ctx, id)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("service.LogbookService.GetSummary: %w", err)
	}
	return result, nil
}

// lockTrip waits up to lockWait for the trip's lock. The returned lease is
// checked before each commit so a lapsed lock rolls the work back.
func (s *LogbookService) lockTrip(ctx context.Context, tripID uuid.UUID) (lock.Lease, error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	return s.locker.Lock(lockCtx, "trip:"+tripID.String())
}

// configurationFor returns the stored configuration, persisting the defaults
// when the trip has none.
func (s *LogbookService) configurationFor(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error) {
	cfg, err := s.repos.Configurations.GetByTripID(ctx, tripID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Configuration{}, err
	}
	return s.repos.Configurations.Upsert(ctx, domain.DefaultConfiguration(tripID))
}

// summarize aggregates entries and replaces the trip's stored summaries with
// the result. Summaries for dates without entries are pruned before any
// prior-day mileage is read, so mileage only carries from a date that still
// has entries.
func (s *LogbookService) summarize(ctx context.Context, r repo.Repos, tripID uuid.UUID, entries []domain.LogEntry) ([]domain.DailySummary, error) {
	if _, err := r.Summaries.DeleteByTripExceptDates(ctx, tripID, entryDates(entries)); err != nil {
		return nil, err
	}

	prior := func(ctx context.Context, date time.Time) (float64, bool, error) {
		sum, err := r.Summaries.GetByTripAndDate(ctx, tripID, date)
		if errors.Is(err, domain.ErrNotFound) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		return sum.TotalMilesDriving, true, nil
	}

	summaries, err := dutylog.Summarize(ctx, tripID, entries, prior)
	if err != nil {
		return nil, err
	}

	stored := make([]domain.DailySummary, 0, len(summaries))
	for _, sum := range summaries {
		saved, err := r.Summaries.Upsert(ctx, sum)
		if err != nil {
			return nil, err
		}
		stored = append(stored, saved)
	}
	metrics.SummariesWrittenTotal.Add(float64(len(stored)))
	return stored, nil
}

// entryDates returns the distinct UTC dates of entries.
func entryDates(entries []domain.LogEntry) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, e := range entries {
		d := domain.DateOf(e.Timestamp)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	return dates
}

func generationResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
