// Package dutylog simulates a driver's multi-day duty log for a trip and
// aggregates log entries into per-day summaries.
//
// The package is pure: it performs no persistence. Generate needs a Geocoder
// and a random source; Summarize needs only the entries and, optionally, a
// lookup for the mileage of the day before the first generated date.
package dutylog
