package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/service"
)

// Wire types. Dates travel as YYYY-MM-DD via openapi_types.Date; instants
// as RFC 3339 in UTC.

type tripRequest struct {
	StartLocation     string             `json:"start_location"`
	PickupLocation    string             `json:"pickup_location"`
	DropoffLocation   string             `json:"dropoff_location"`
	StartDate         openapi_types.Date `json:"start_date"`
	CurrentCycleHours float64            `json:"current_cycle_hours"`
}

type tripLookupRequest struct {
	StartLocation   string             `json:"start_location"`
	PickupLocation  string             `json:"pickup_location"`
	DropoffLocation string             `json:"dropoff_location"`
	StartDate       openapi_types.Date `json:"start_date"`
}

type tripResponse struct {
	ID                openapi_types.UUID `json:"id"`
	StartLocation     string             `json:"start_location"`
	PickupLocation    string             `json:"pickup_location"`
	DropoffLocation   string             `json:"dropoff_location"`
	StartDate         openapi_types.Date `json:"start_date"`
	CurrentCycleHours float64            `json:"current_cycle_hours"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type tripDetailResponse struct {
	tripResponse
	LogEntries []logEntryResponse `json:"log_entries"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type tripListResponse struct {
	Data       []tripResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

// tripLookupResponse reports whether a trip with the requested natural key
// exists. Trip and DailySummary are omitted when it does not.
type tripLookupResponse struct {
	Exists       bool                  `json:"exists"`
	Trip         *tripDetailResponse   `json:"trip,omitempty"`
	DailySummary *dailySummaryResponse `json:"daily_summary,omitempty"`
}

type logEntryRequest struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    domain.DutyStatus `json:"duty_status"`
	Location  string            `json:"location"`
	Remarks   string            `json:"remarks"`
	Latitude  *float64          `json:"latitude"`
	Longitude *float64          `json:"longitude"`
}

type logEntryResponse struct {
	ID        openapi_types.UUID `json:"id"`
	TripID    openapi_types.UUID `json:"trip_id"`
	Timestamp time.Time          `json:"timestamp"`
	Status    domain.DutyStatus  `json:"duty_status"`
	Location  string             `json:"location"`
	Remarks   string             `json:"remarks"`
	Latitude  *float64           `json:"latitude"`
	Longitude *float64           `json:"longitude"`
}

type configurationRequest struct {
	FuelStopFrequency float64 `json:"fuel_stop_frequency"`
	PickupDropoffTime float64 `json:"pickup_dropoff_time"`
	MinimumRestStop   float64 `json:"minimum_rest_stop"`
}

// configurationResponse.ID is omitted for defaults that have not been stored.
type configurationResponse struct {
	ID                *openapi_types.UUID `json:"id,omitempty"`
	TripID            openapi_types.UUID  `json:"trip_id"`
	FuelStopFrequency float64             `json:"fuel_stop_frequency"`
	PickupDropoffTime float64             `json:"pickup_dropoff_time"`
	MinimumRestStop   float64             `json:"minimum_rest_stop"`
}

type dailySummaryResponse struct {
	ID                     openapi_types.UUID `json:"id"`
	TripID                 openapi_types.UUID `json:"trip_id"`
	Date                   openapi_types.Date `json:"date"`
	TotalMilesDriving      float64            `json:"total_miles_driving"`
	TotalOffDutyHours      float64            `json:"total_off_duty_hours"`
	TotalSleeperBerthHours float64            `json:"total_sleeper_berth_hours"`
	TotalDrivingHours      float64            `json:"total_driving_hours"`
	TotalOnDutyHours       float64            `json:"total_on_duty_hours"`
	TotalLines34           float64            `json:"total_lines_3_4"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- mapping helpers --------------------------------------------------------

func (b tripRequest) toTrip(id openapi_types.UUID) domain.Trip {
	return domain.Trip{
		ID:                id,
		StartLocation:     b.StartLocation,
		PickupLocation:    b.PickupLocation,
		DropoffLocation:   b.DropoffLocation,
		StartDate:         b.StartDate.Time,
		CurrentCycleHours: b.CurrentCycleHours,
	}
}

func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:                t.ID,
		StartLocation:     t.StartLocation,
		PickupLocation:    t.PickupLocation,
		DropoffLocation:   t.DropoffLocation,
		StartDate:         openapi_types.Date{Time: t.StartDate},
		CurrentCycleHours: t.CurrentCycleHours,
		CreatedAt:         t.CreatedAt.UTC(),
		UpdatedAt:         t.UpdatedAt.UTC(),
	}
}

func detailToResponse(d service.TripDetail) tripDetailResponse {
	return tripDetailResponse{
		tripResponse: tripToResponse(d.Trip),
		LogEntries:   entriesToResponse(d.Entries),
	}
}

func (b logEntryRequest) toLogEntry(tripID openapi_types.UUID) domain.LogEntry {
	return domain.LogEntry{
		TripID:    tripID,
		Timestamp: b.Timestamp,
		Status:    b.Status,
		Location:  b.Location,
		Remarks:   b.Remarks,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
	}
}

func entryToResponse(e domain.LogEntry) logEntryResponse {
	return logEntryResponse{
		ID:        e.ID,
		TripID:    e.TripID,
		Timestamp: e.Timestamp.UTC(),
		Status:    e.Status,
		Location:  e.Location,
		Remarks:   e.Remarks,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
	}
}

// entriesToResponse never returns nil so empty lists encode as [].
func entriesToResponse(entries []domain.LogEntry) []logEntryResponse {
	out := make([]logEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = entryToResponse(e)
	}
	return out
}

func (b configurationRequest) toConfiguration(tripID openapi_types.UUID) domain.Configuration {
	return domain.Configuration{
		TripID:            tripID,
		FuelStopFrequency: b.FuelStopFrequency,
		PickupDropoffTime: b.PickupDropoffTime,
		MinimumRestStop:   b.MinimumRestStop,
	}
}

func configurationToResponse(c domain.Configuration) configurationResponse {
	resp := configurationResponse{
		TripID:            c.TripID,
		FuelStopFrequency: c.FuelStopFrequency,
		PickupDropoffTime: c.PickupDropoffTime,
		MinimumRestStop:   c.MinimumRestStop,
	}
	if c.ID != uuid.Nil {
		id := c.ID
		resp.ID = &id
	}
	return resp
}

func summaryToResponse(s domain.DailySummary) dailySummaryResponse {
	return dailySummaryResponse{
		ID:                     s.ID,
		TripID:                 s.TripID,
		Date:                   openapi_types.Date{Time: s.Date},
		TotalMilesDriving:      s.TotalMilesDriving,
		TotalOffDutyHours:      s.TotalOffDutyHours,
		TotalSleeperBerthHours: s.TotalSleeperBerthHours,
		TotalDrivingHours:      s.TotalDrivingHours,
		TotalOnDutyHours:       s.TotalOnDutyHours,
		TotalLines34:           s.TotalLines34,
	}
}

func summariesToResponse(summaries []domain.DailySummary) []dailySummaryResponse {
	out := make([]dailySummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = summaryToResponse(s)
	}
	return out
}
