package domain

import "github.com/google/uuid"

// Default configuration values applied when a trip has no stored configuration.
const (
	DefaultFuelStopFrequency = 1000 // miles
	DefaultPickupDropoffTime = 1    // hours
	DefaultMinimumRestStop   = 0.5  // hours
)

// Configuration tunes log generation for a single trip.
//
// MinimumRestStop is the length of the fuel-stop and 30-minute breaks.
// PickupDropoffTime is the upper bound of the loading duration; the lower
// bound is half of it. FuelStopFrequency is stored for the client but does
// not move the daily fuel stop while mileage remains a placeholder.
type Configuration struct {
	ID                uuid.UUID
	TripID            uuid.UUID
	FuelStopFrequency float64
	PickupDropoffTime float64
	MinimumRestStop   float64
}

// DefaultConfiguration returns the configuration used when none is stored.
// The returned value has no ID; it has not been persisted.
func DefaultConfiguration(tripID uuid.UUID) Configuration {
	return Configuration{
		TripID:            tripID,
		FuelStopFrequency: DefaultFuelStopFrequency,
		PickupDropoffTime: DefaultPickupDropoffTime,
		MinimumRestStop:   DefaultMinimumRestStop,
	}
}
