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

// LogEntryService handles manual reads and edits of a trip's log entries.
// Edits do not touch daily summaries; call LogbookService.RecalculateSummaries
// afterwards to bring them up to date.
type LogEntryService struct {
	trips   repo.TripRepo
	entries repo.LogEntryRepo
}

// NewLogEntryService constructs a LogEntryService.
func NewLogEntryService(trips repo.TripRepo, entries repo.LogEntryRepo) *LogEntryService {
	return &LogEntryService{trips: trips, entries: entries}
}

// ListByTripID returns the trip's entries in timestamp order.
// Returns domain.ErrNotFound if the trip does not exist. Never returns a nil slice.
func (s *LogEntryService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.LogEntryService.ListByTripID: %w", err)
	}
	entries, err := s.entries.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LogEntryService.ListByTripID: %w", err)
	}
	if entries == nil {
		return []domain.LogEntry{}, nil
	}
	return entries, nil
}

// Create validates and stores a manual entry.
// Returns domain.ErrValidation for bad input and domain.ErrNotFound if the
// trip does not exist.
func (s *LogEntryService) Create(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error) {
	e.Location = strings.TrimSpace(e.Location)
	e.Remarks = strings.TrimSpace(e.Remarks)
	if err := validateLogEntry(e); err != nil {
		return domain.LogEntry{}, err
	}
	if _, err := s.trips.GetByID(ctx, e.TripID); err != nil {
		return domain.LogEntry{}, fmt.Errorf("service.LogEntryService.Create: %w", err)
	}
	e.Timestamp = e.Timestamp.UTC()
	result, err := s.entries.Create(ctx, e)
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("service.LogEntryService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single entry scoped to tripID.
func (s *LogEntryService) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error) {
	result, err := s.entries.GetByID(ctx, tripID, id)
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("service.LogEntryService.GetByID: %w", err)
	}
	return result, nil
}

// Delete removes a single entry scoped to tripID.
func (s *LogEntryService) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	if err := s.entries.Delete(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.LogEntryService.Delete: %w", err)
	}
	return nil
}

// validateLogEntry enforces the rules for manual entries.
//   - Status must be one of OD, SB, DR, ON.
//   - Timestamp and Location are required.
//   - Latitude and Longitude are both set or both nil, and within range.
func validateLogEntry(e domain.LogEntry) error {
	var errs []error
	if !e.Status.Valid() {
		errs = append(errs, errors.New("duty_status must be one of OD, SB, DR, ON"))
	}
	if e.Timestamp.IsZero() {
		errs = append(errs, errors.New("timestamp is required"))
	}
	switch {
	case e.Location == "":
		errs = append(errs, errors.New("location is required"))
	case utf8.RuneCountInString(e.Location) > maxLocationLength:
		errs = append(errs, fmt.Errorf("location must be at most %d characters", maxLocationLength))
	}
	switch {
	case (e.Latitude == nil) != (e.Longitude == nil):
		errs = append(errs, errors.New("latitude and longitude must be set together"))
	case e.Latitude != nil && (*e.Latitude < -90 || *e.Latitude > 90):
		errs = append(errs, errors.New("latitude must be within [-90, 90]"))
	case e.Longitude != nil && (*e.Longitude < -180 || *e.Longitude > 180):
		errs = append(errs, errors.New("longitude must be within [-180, 180]"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, errors.Join(errs...))
	}
	return nil
}
