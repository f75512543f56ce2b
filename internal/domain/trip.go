// Package domain contains the core data types for the Trucker Logbook application.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (dutylog, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is one journey from a start location through a pickup to a drop-off.
// It is the unit of log generation and daily aggregation; log entries,
// daily summaries, and the configuration all belong to a trip.
type Trip struct {
	ID              uuid.UUID
	StartLocation   string
	PickupLocation  string
	DropoffLocation string
	// StartDate is a calendar date; only its year, month, and day are meaningful.
	StartDate time.Time
	// CurrentCycleHours is the driver's accumulated on-duty hours at trip start.
	// It is carried as metadata and never recomputed by the generator.
	CurrentCycleHours float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TripLookup identifies a trip by its natural key rather than its ID.
type TripLookup struct {
	StartLocation   string
	PickupLocation  string
	DropoffLocation string
	StartDate       time.Time
}

// DateOf truncates t to midnight UTC of its UTC calendar date.
// All log grouping and summary keys use this normalization.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
