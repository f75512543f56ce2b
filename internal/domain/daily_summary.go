package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailySummary is the recap for one calendar date of a trip.
// It is keyed by (TripID, Date) and derived entirely from log entries.
//
// TotalMilesDriving is cumulative across the whole trip: each day starts from
// the previous day's value. TotalLines34 is driving plus on-duty hours, the
// "lines 3 and 4" total of the paper log.
type DailySummary struct {
	ID                     uuid.UUID
	TripID                 uuid.UUID
	Date                   time.Time
	TotalMilesDriving      float64
	TotalOffDutyHours      float64
	TotalSleeperBerthHours float64
	TotalDrivingHours      float64
	TotalOnDutyHours       float64
	TotalLines34           float64
}
