package dutylog

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
)

// PlaceholderMilesPerDrive is added to the cumulative mileage for every
// interval attributed to driving, regardless of its length. Real routing
// data is not available.
const PlaceholderMilesPerDrive = 100.0

// PriorMiles returns the cumulative mileage recorded for date, if a summary
// for that date exists. Summarize calls it only for the day before a date
// that has no in-batch predecessor.
type PriorMiles func(ctx context.Context, date time.Time) (miles float64, ok bool, err error)

// Summarize groups entries by UTC calendar date and returns one summary per
// date, in ascending date order.
//
// Hours between two consecutive entries of the same day are attributed to the
// status of the earlier entry. The first entry of a day has no predecessor and
// the interval after the last entry is not counted. Each driving interval adds
// PlaceholderMilesPerDrive to the mileage carried from the previous day.
//
// An empty entries slice yields nil and no error. prior may be nil.
func Summarize(ctx context.Context, tripID uuid.UUID, entries []domain.LogEntry, prior PriorMiles) ([]domain.DailySummary, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b domain.LogEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	var summaries []domain.DailySummary
	for _, day := range groupByDate(sorted) {
		miles, err := carriedMiles(ctx, day.date, summaries, prior)
		if err != nil {
			return nil, fmt.Errorf("dutylog.Summarize: %s: %w", day.date.Format(time.DateOnly), err)
		}
		s := summarizeDay(day.entries, miles)
		s.TripID = tripID
		s.Date = day.date
		summaries = append(summaries, s)
	}
	return summaries, nil
}

type dayGroup struct {
	date    time.Time
	entries []domain.LogEntry
}

// groupByDate splits timestamp-sorted entries into contiguous per-date runs.
func groupByDate(entries []domain.LogEntry) []dayGroup {
	var groups []dayGroup
	for _, e := range entries {
		d := domain.DateOf(e.Timestamp)
		if n := len(groups); n > 0 && groups[n-1].date.Equal(d) {
			groups[n-1].entries = append(groups[n-1].entries, e)
			continue
		}
		groups = append(groups, dayGroup{date: d, entries: []domain.LogEntry{e}})
	}
	return groups
}

// carriedMiles returns the cumulative mileage of the day before date, looking
// first at summaries computed in this batch and then at prior.
func carriedMiles(ctx context.Context, date time.Time, computed []domain.DailySummary, prior PriorMiles) (float64, error) {
	previous := date.AddDate(0, 0, -1)
	if n := len(computed); n > 0 && computed[n-1].Date.Equal(previous) {
		return computed[n-1].TotalMilesDriving, nil
	}
	if prior == nil {
		return 0, nil
	}
	miles, ok, err := prior(ctx, previous)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return miles, nil
}

func summarizeDay(entries []domain.LogEntry, miles float64) domain.DailySummary {
	s := domain.DailySummary{TotalMilesDriving: miles}
	for i := 1; i < len(entries); i++ {
		prev := entries[i-1]
		hours := entries[i].Timestamp.Sub(prev.Timestamp).Hours()
		switch prev.Status {
		case domain.OffDuty:
			s.TotalOffDutyHours += hours
		case domain.SleeperBerth:
			s.TotalSleeperBerthHours += hours
		case domain.Driving:
			s.TotalDrivingHours += hours
			s.TotalMilesDriving += PlaceholderMilesPerDrive
		case domain.OnDuty:
			s.TotalOnDutyHours += hours
		}
	}
	s.TotalLines34 = s.TotalDrivingHours + s.TotalOnDutyHours
	return s
}
