package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trucker-logbook/internal/domain"
)

// ConfigurationRepo defines the persistence operations for per-trip
// generation settings. A trip has at most one configuration.
type ConfigurationRepo interface {
	// GetByTripID returns the trip's configuration.
	// Returns domain.ErrNotFound if none has been stored.
	GetByTripID(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error)

	// Upsert inserts the configuration or replaces the trip's existing one.
	Upsert(ctx context.Context, c domain.Configuration) (domain.Configuration, error)
}

type pgConfigurationRepo struct {
	db db
}

// NewConfigurationRepo constructs a ConfigurationRepo backed by db.
func NewConfigurationRepo(db db) ConfigurationRepo {
	return &pgConfigurationRepo{db: db}
}

func (r *pgConfigurationRepo) GetByTripID(ctx context.Context, tripID uuid.UUID) (domain.Configuration, error) {
	const q = `
		SELECT id, trip_id, fuel_stop_frequency, pickup_dropoff_time, minimum_rest_stop
		FROM configurations
		WHERE trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	result, err := scanConfiguration(row)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("repo.ConfigurationRepo.GetByTripID: %w", err)
	}
	return result, nil
}

func (r *pgConfigurationRepo) Upsert(ctx context.Context, c domain.Configuration) (domain.Configuration, error) {
	const q = `
		INSERT INTO configurations (trip_id, fuel_stop_frequency, pickup_dropoff_time, minimum_rest_stop)
		VALUES (@trip_id, @fuel_stop_frequency, @pickup_dropoff_time, @minimum_rest_stop)
		ON CONFLICT (trip_id) DO UPDATE
		SET fuel_stop_frequency = EXCLUDED.fuel_stop_frequency,
		    pickup_dropoff_time = EXCLUDED.pickup_dropoff_time,
		    minimum_rest_stop   = EXCLUDED.minimum_rest_stop
		RETURNING id, trip_id, fuel_stop_frequency, pickup_dropoff_time, minimum_rest_stop`

	args := pgx.NamedArgs{
		"trip_id":             c.TripID,
		"fuel_stop_frequency": c.FuelStopFrequency,
		"pickup_dropoff_time": c.PickupDropoffTime,
		"minimum_rest_stop":   c.MinimumRestStop,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanConfiguration(row)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("repo.ConfigurationRepo.Upsert: %w", err)
	}
	return result, nil
}

func scanConfiguration(s scanner) (domain.Configuration, error) {
	var (
		c      domain.Configuration
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &c.FuelStopFrequency, &c.PickupDropoffTime, &c.MinimumRestStop)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Configuration{}, domain.ErrNotFound
		}
		return domain.Configuration{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.TripID = uuid.UUID(tripID.Bytes)
	return c, nil
}
