package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trucker-logbook/internal/domain"
)

const tripNotFound = "trip not found"

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), body.toTrip(uuid.Nil))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	params := domain.NewPaginationParams(page, limit)

	result, err := s.trips.List(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	data := make([]tripResponse, len(result.Items))
	for i, t := range result.Items {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data:       data,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: result.Total},
	})
}

// GetTrip handles GET /trips/{tripId}. The response embeds the trip's log
// entries in timestamp order.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	detail, err := s.trips.GetDetail(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detailToResponse(detail))
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), body.toTrip(id))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}. Entries, summaries, and the
// configuration go with it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LookupTrip handles POST /trips/lookup. A client calls it before creating a
// trip to reuse logs already generated for the same route and start date.
// No match is a normal outcome and answers 200 with exists=false.
func (s *Server) LookupTrip(w http.ResponseWriter, r *http.Request) {
	var body tripLookupRequest
	if !decodeBody(w, r, &body) {
		return
	}

	match, err := s.trips.Lookup(r.Context(), domain.TripLookup{
		StartLocation:   body.StartLocation,
		PickupLocation:  body.PickupLocation,
		DropoffLocation: body.DropoffLocation,
		StartDate:       body.StartDate.Time,
	})
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusOK, tripLookupResponse{Exists: false})
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	detail := detailToResponse(match.TripDetail)
	resp := tripLookupResponse{Exists: true, Trip: &detail}
	if match.FirstSummary != nil {
		summary := summaryToResponse(*match.FirstSummary)
		resp.DailySummary = &summary
	}
	writeJSON(w, http.StatusOK, resp)
}
