package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/repo"
)

// ConfigurationService manages the per-trip generation settings.
type ConfigurationService struct {
	trips   repo.TripRepo
	configs repo.ConfigurationRepo
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(trips repo.TripRepo, configs repo.ConfigurationRepo) *ConfigurationService {
	return &ConfigurationService{trips: trips, configs: configs}
}

// Get returns the trip's stored configuration, or the defaults when none has
// been stored. The defaults are not persisted here; GenerateLogs does that.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ConfigurationService) Get(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Configuration{}, fmt.Errorf("service.ConfigurationService.Get: %w", err)
	}
	cfg, err := s.configs.GetByTripID(ctx, tripID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultConfiguration(tripID), nil
	}
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("service.ConfigurationService.Get: %w", err)
	}
	return cfg, nil
}

// Upsert validates and stores the trip's configuration.
// Returns domain.ErrValidation for non-positive values and domain.ErrNotFound
// if the trip does not exist.
func (s *ConfigurationService) Upsert(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error) {
	if err := validateConfiguration(cfg); err != nil {
		return domain.Configuration{}, err
	}
	if _, err := s.trips.GetByID(ctx, cfg.TripID); err != nil {
		return domain.Configuration{}, fmt.Errorf("service.ConfigurationService.Upsert: %w", err)
	}
	result, err := s.configs.Upsert(ctx, cfg)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("service.ConfigurationService.Upsert: %w", err)
	}
	return result, nil
}

// Upper bounds on the configurable durations. A simulated day spends under
// 20.5 hours on fixed work; the fuel stop, one rest break, and loading must
// fit in what remains before midnight.
const (
	maxMinimumRestStopHours   = 1.0
	maxPickupDropoffTimeHours = 1.5
)

func validateConfiguration(c domain.Configuration) error {
	var errs []error
	if c.FuelStopFrequency <= 0 {
		errs = append(errs, errors.New("fuel_stop_frequency must be positive"))
	}
	if c.PickupDropoffTime <= 0 || c.PickupDropoffTime > maxPickupDropoffTimeHours {
		errs = append(errs, fmt.Errorf("pickup_dropoff_time must be in (0, %g] hours", maxPickupDropoffTimeHours))
	}
	if c.MinimumRestStop <= 0 || c.MinimumRestStop > maxMinimumRestStopHours {
		errs = append(errs, fmt.Errorf("minimum_rest_stop must be in (0, %g] hours", maxMinimumRestStopHours))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, errors.Join(errs...))
	}
	return nil
}
