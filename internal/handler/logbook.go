package handler

import "net/http"

const summaryNotFound = "daily summary not found"

// GenerateLogs handles POST /trips/{tripId}/generate-logs.
// It replaces the trip's log entries with a freshly simulated log and
// rewrites its daily summaries. A concurrent regeneration of the same trip
// that outlasts the lock wait answers 409.
func (s *Server) GenerateLogs(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	if err := s.logbook.GenerateLogs(r.Context(), tripID); err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, statusResponse{Status: "Logs generated successfully"})
}

// ListDailySummaries handles GET /trips/{tripId}/daily-summaries.
func (s *Server) ListDailySummaries(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	summaries, err := s.logbook.ListSummaries(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, summariesToResponse(summaries))
}

// RecalculateDailySummaries handles POST /trips/{tripId}/daily-summaries/recalculate.
// It rebuilds the summaries from the stored entries and returns them.
func (s *Server) RecalculateDailySummaries(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	summaries, err := s.logbook.RecalculateSummaries(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, summariesToResponse(summaries))
}

// GetDailySummary handles GET /daily-summaries/{summaryId}.
func (s *Server) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "summaryId")
	if !ok {
		return
	}

	summary, err := s.logbook.GetSummary(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, summaryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, summaryToResponse(summary))
}
