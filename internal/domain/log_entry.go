package domain

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is a geocoded latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// LogEntry is a single duty-status change in the driver's log.
// Entries are created in bulk by the generator and never mutated afterwards;
// a regeneration replaces every entry of the trip.
// Latitude and Longitude are nil when the location could not be geocoded.
type LogEntry struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Timestamp time.Time
	Status    DutyStatus
	Location  string
	Remarks   string
	Latitude  *float64
	Longitude *float64
}

// SetCoordinates copies c into the entry, or clears both fields when c is nil.
func (e *LogEntry) SetCoordinates(c *Coordinates) {
	if c == nil {
		e.Latitude, e.Longitude = nil, nil
		return
	}
	lat, lon := c.Lat, c.Lon
	e.Latitude, e.Longitude = &lat, &lon
}
