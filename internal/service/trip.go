// Package service contains the business logic for the Trucker Logbook API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/repo"
)

// maxLocationLength bounds every free-text location, in characters.
const maxLocationLength = 255

// TripDetail is a trip together with its log entries in timestamp order.
type TripDetail struct {
	Trip    domain.Trip
	Entries []domain.LogEntry
}

// TripMatch is the result of a successful Lookup. FirstSummary is nil when
// the trip has no logs yet.
type TripMatch struct {
	TripDetail
	FirstSummary *domain.DailySummary
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips     repo.TripRepo
	entries   repo.LogEntryRepo
	summaries repo.SummaryRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, entries repo.LogEntryRepo, summaries repo.SummaryRepo) *TripService {
	return &TripService{trips: trips, entries: entries, summaries: summaries}
}

// Create validates and persists a new trip.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// GetDetail returns a trip with its log entries embedded.
func (s *TripService) GetDetail(ctx context.Context, id uuid.UUID) (TripDetail, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return TripDetail{}, fmt.Errorf("service.TripService.GetDetail: %w", err)
	}
	return s.detail(ctx, trip)
}

// List returns one page of trips, newest start date first.
// Items is never nil.
func (s *TripService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return domain.Page[domain.Trip]{Items: trips, Total: total}, nil
}

// Update validates and updates an existing trip. Existing logs are not
// regenerated; callers regenerate explicitly.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID along with everything it owns.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Lookup finds an existing trip by its natural key so a client can reuse
// previously generated logs instead of creating a duplicate trip.
// Returns domain.ErrValidation if any key field is blank and
// domain.ErrNotFound if no trip matches.
func (s *TripService) Lookup(ctx context.Context, l domain.TripLookup) (TripMatch, error) {
	l.StartLocation = strings.TrimSpace(l.StartLocation)
	l.PickupLocation = strings.TrimSpace(l.PickupLocation)
	l.DropoffLocation = strings.TrimSpace(l.DropoffLocation)
	if l.StartLocation == "" || l.PickupLocation == "" || l.DropoffLocation == "" || l.StartDate.IsZero() {
		return TripMatch{}, fmt.Errorf("%w: start_location, pickup_location, dropoff_location and start_date are required", domain.ErrValidation)
	}

	trip, err := s.trips.FindByLookup(ctx, l)
	if err != nil {
		return TripMatch{}, fmt.Errorf("service.TripService.Lookup: %w", err)
	}
	detail, err := s.detail(ctx, trip)
	if err != nil {
		return TripMatch{}, err
	}

	match := TripMatch{TripDetail: detail}
	summaries, err := s.summaries.ListByTripID(ctx, trip.ID)
	if err != nil {
		return TripMatch{}, fmt.Errorf("service.TripService.Lookup: summaries: %w", err)
	}
	if len(summaries) > 0 {
		match.FirstSummary = &summaries[0]
	}
	return match, nil
}

func (s *TripService) detail(ctx context.Context, trip domain.Trip) (TripDetail, error) {
	entries, err := s.entries.ListByTripID(ctx, trip.ID)
	if err != nil {
		return TripDetail{}, fmt.Errorf("service.TripService: entries: %w", err)
	}
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	return TripDetail{Trip: trip, Entries: entries}, nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.StartLocation = strings.TrimSpace(t.StartLocation)
	t.PickupLocation = strings.TrimSpace(t.PickupLocation)
	t.DropoffLocation = strings.TrimSpace(t.DropoffLocation)
	if !t.StartDate.IsZero() {
		t.StartDate = domain.DateOf(t.StartDate)
	}
	return t
}

// validateTrip enforces business rules common to both Create and Update.
//   - All three locations are required and at most maxLocationLength characters.
//   - StartDate is required.
//   - CurrentCycleHours must not be negative.
func validateTrip(t domain.Trip) error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"start_location", t.StartLocation},
		{"pickup_location", t.PickupLocation},
		{"dropoff_location", t.DropoffLocation},
	} {
		switch {
		case f.value == "":
			errs = append(errs, fmt.Errorf("%s is required", f.name))
		case utf8.RuneCountInString(f.value) > maxLocationLength:
			errs = append(errs, fmt.Errorf("%s must be at most %d characters", f.name, maxLocationLength))
		}
	}
	if t.StartDate.IsZero() {
		errs = append(errs, errors.New("start_date is required"))
	}
	if t.CurrentCycleHours < 0 {
		errs = append(errs, errors.New("current_cycle_hours must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, errors.Join(errs...))
	}
	return nil
}
