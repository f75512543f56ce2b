package dutylog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
)

// Simulation constants. Durations that the per-trip Configuration controls
// (rest breaks, loading time) are not listed here.
const (
	// MaxDays is the ceiling on simulated days before the drop-off is forced.
	MaxDays = 5
	// EnRoute is the location label of every driving entry.
	EnRoute = "En Route"
	// BreakAfterDrivingHours triggers a rest break once daily driving exceeds it.
	BreakAfterDrivingHours = 8.0
	// SleeperBerthRest is the fixed length of the mid-day sleeper berth period.
	SleeperBerthRest = 8 * time.Hour

	preTripJitterMinutes   = 60
	departureJitterMinutes = 30
)

// Remarks written on generated entries.
const (
	RemarkStartOfDay   = "Start of day"
	RemarkPreTrip      = "Pre-trip inspection"
	RemarkDriving      = "Driving"
	RemarkFuelStop     = "Fuel stop and 30-minute break"
	RemarkBreak        = "30-minute break"
	RemarkSleeperBerth = "Sleeper berth break"
	RemarkLoading      = "Loading/Unloading Freight"
	RemarkEndOfDay     = "End of day"
	RemarkDropoff      = "Dropoff"
)

// ErrCityPoolExhausted is returned when no city in the pool differs from the
// current, start, pickup, and drop-off locations.
var ErrCityPoolExhausted = errors.New("dutylog: no intermediate city available")

// Geocoder resolves a free-text location. A nil result with a nil error means
// the location was not found. Errors never abort generation.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*domain.Coordinates, error)
}

// Input is everything Generate needs to know about a trip.
type Input struct {
	TripID          uuid.UUID
	StartDate       time.Time
	StartLocation   string
	PickupLocation  string
	DropoffLocation string
	Config          domain.Configuration
}

// Generator synthesizes duty-log entries for trips.
// A Generator is safe for concurrent use as long as each call to Generate
// gets its own Rand.
type Generator struct {
	geocoder Geocoder
	cities   []string
	log      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithCities replaces DefaultCities as the intermediate stop pool.
func WithCities(cities []string) Option {
	return func(g *Generator) { g.cities = slices.Clone(cities) }
}

// WithLogger sets the logger used for geocoding warnings and per-day debug output.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// NewGenerator returns a Generator that resolves coordinates through geocoder.
func NewGenerator(geocoder Geocoder, opts ...Option) *Generator {
	g := &Generator{
		geocoder: geocoder,
		cities:   DefaultCities,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the ordered, unsaved log entries for one trip.
//
// Each simulated day runs start-of-day, pre-trip inspection, three driving
// legs separated by a fuel stop and a sleeper berth period, optional rest
// breaks once daily driving exceeds BreakAfterDrivingHours, loading at the
// pickup, and end-of-day at a freshly drawn city. Days repeat until the
// current location is the drop-off or MaxDays is reached; a final on-duty
// "Dropoff" entry is always appended.
func (g *Generator) Generate(ctx context.Context, in Input, rng Rand) ([]domain.LogEntry, error) {
	in.Config = withDefaults(in.Config)
	r := &run{
		gen:     g,
		in:      in,
		rng:     rng,
		coords:  make(map[string]*domain.Coordinates),
		now:     domain.DateOf(in.StartDate),
		current: in.StartLocation,
	}

	for day := 1; r.current != in.DropoffLocation && day <= MaxDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dutylog.Generator.Generate: %w", err)
		}
		if err := r.simulateDay(ctx); err != nil {
			return nil, fmt.Errorf("dutylog.Generator.Generate: day %d: %w", day, err)
		}
	}

	r.emit(ctx, domain.OnDuty, in.DropoffLocation, RemarkDropoff, in.DropoffLocation)
	return r.entries, nil
}

// withDefaults replaces non-positive durations with the package defaults so a
// zero Configuration behaves like an unconfigured trip.
func withDefaults(c domain.Configuration) domain.Configuration {
	if c.MinimumRestStop <= 0 {
		c.MinimumRestStop = domain.DefaultMinimumRestStop
	}
	if c.PickupDropoffTime <= 0 {
		c.PickupDropoffTime = domain.DefaultPickupDropoffTime
	}
	return c
}

// run holds the mutable state of one Generate call.
type run struct {
	gen *Generator
	in  Input
	rng Rand

	// coords memoizes geocoding results, including misses, for this run.
	coords map[string]*domain.Coordinates

	entries []domain.LogEntry
	now     time.Time
	current string

	// Accumulators for the current simulated day. onDutyHours counts driving
	// time only; loading is not part of the daily total.
	drivingHours float64
	onDutyHours  float64
}

func (r *run) simulateDay(ctx context.Context) error {
	rest := hoursToDuration(r.in.Config.MinimumRestStop)
	dayStart := r.current

	r.emit(ctx, domain.OffDuty, dayStart, RemarkStartOfDay, dayStart)
	r.now = r.now.Add(jitterMinutes(r.rng, preTripJitterMinutes))
	r.emit(ctx, domain.OnDuty, dayStart, RemarkPreTrip, dayStart)
	r.now = r.now.Add(jitterMinutes(r.rng, departureJitterMinutes))

	r.drive(ctx, uniformHours(r.rng, 3, 4), dayStart)

	fuelStop, err := r.sampleCity()
	if err != nil {
		return err
	}
	r.emit(ctx, domain.OnDuty, fuelStop, RemarkFuelStop, fuelStop)
	r.now = r.now.Add(rest)

	r.drive(ctx, uniformHours(r.rng, 3, 4), fuelStop)
	r.breakIfDue(ctx, fuelStop, rest)

	sleeper, err := r.sampleCity()
	if err != nil {
		return err
	}
	r.emit(ctx, domain.SleeperBerth, sleeper, RemarkSleeperBerth, sleeper)
	r.now = r.now.Add(SleeperBerthRest)

	r.drive(ctx, uniformHours(r.rng, 2, 3), sleeper)
	// The second break keeps the fuel-stop label and coordinates.
	r.breakIfDue(ctx, fuelStop, rest)

	pd := r.in.Config.PickupDropoffTime
	loading := uniformHours(r.rng, pd/2, pd)
	r.emit(ctx, domain.OnDuty, r.in.PickupLocation, RemarkLoading, r.in.PickupLocation)
	r.now = r.now.Add(hoursToDuration(loading))

	endOfDay, err := r.sampleCity()
	if err != nil {
		return err
	}
	r.emit(ctx, domain.OffDuty, endOfDay, RemarkEndOfDay, endOfDay)

	r.gen.log.DebugContext(ctx, "simulated day",
		"trip_id", r.in.TripID,
		"date", domain.DateOf(r.now).Format(time.DateOnly),
		"on_duty_hours", r.onDutyHours,
		"driving_hours_since_break", r.drivingHours,
	)

	r.now = domain.DateOf(r.now).AddDate(0, 0, 1)
	r.current = endOfDay
	r.drivingHours, r.onDutyHours = 0, 0
	return nil
}

// drive logs a driving leg departing from the named location and advances time.
// The entry is stamped before the clock moves: it marks the start of driving.
func (r *run) drive(ctx context.Context, hours float64, from string) {
	r.emit(ctx, domain.Driving, EnRoute, RemarkDriving, from)
	r.now = r.now.Add(hoursToDuration(hours))
	r.drivingHours += hours
	r.onDutyHours += hours
}

// breakIfDue logs a rest break at location once daily driving exceeds the
// threshold and resets the driving accumulator. On-duty hours keep counting.
func (r *run) breakIfDue(ctx context.Context, location string, rest time.Duration) {
	if r.drivingHours <= BreakAfterDrivingHours {
		return
	}
	r.emit(ctx, domain.OnDuty, location, RemarkBreak, location)
	r.now = r.now.Add(rest)
	r.drivingHours = 0
}

// sampleCity draws a city that is not the current, start, pickup, or drop-off location.
func (r *run) sampleCity() (string, error) {
	excluded := []string{r.current, r.in.StartLocation, r.in.PickupLocation, r.in.DropoffLocation}
	candidates := make([]string, 0, len(r.gen.cities))
	for _, c := range r.gen.cities {
		if !slices.Contains(excluded, c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return "", ErrCityPoolExhausted
	}
	return candidates[r.rng.IntN(len(candidates))], nil
}

// emit appends an entry at the current time. coordsOf names the location
// whose coordinates are attached, which differs from location for driving
// entries labelled EnRoute.
func (r *run) emit(ctx context.Context, status domain.DutyStatus, location, remarks, coordsOf string) {
	e := domain.LogEntry{
		TripID:    r.in.TripID,
		Timestamp: r.now,
		Status:    status,
		Location:  location,
		Remarks:   remarks,
	}
	e.SetCoordinates(r.locate(ctx, coordsOf))
	r.entries = append(r.entries, e)
}

// locate geocodes label once per run. Failures are logged and remembered as
// a miss so the same label is not retried within the run.
func (r *run) locate(ctx context.Context, label string) *domain.Coordinates {
	if c, ok := r.coords[label]; ok {
		return c
	}
	var c *domain.Coordinates
	if r.gen.geocoder != nil {
		var err error
		c, err = r.gen.geocoder.Geocode(ctx, label)
		if err != nil {
			r.gen.log.WarnContext(ctx, "geocoding failed",
				"trip_id", r.in.TripID,
				"location", label,
				"error", err,
			)
			c = nil
		}
	}
	r.coords[label] = c
	return c
}
