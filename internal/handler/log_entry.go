package handler

import "net/http"

const logEntryNotFound = "log entry not found"

// ListLogEntries handles GET /trips/{tripId}/log-entries.
func (s *Server) ListLogEntries(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	entries, err := s.entries.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entriesToResponse(entries))
}

// CreateLogEntry handles POST /trips/{tripId}/log-entries.
// Daily summaries are not updated; clients call the recalculate endpoint
// after a batch of manual edits.
func (s *Server) CreateLogEntry(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body logEntryRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.entries.Create(r.Context(), body.toLogEntry(tripID))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, entryToResponse(created))
}

// GetLogEntry handles GET /trips/{tripId}/log-entries/{entryId}.
func (s *Server) GetLogEntry(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "entryId")
	if !ok {
		return
	}

	entry, err := s.entries.GetByID(r.Context(), tripID, id)
	if err != nil {
		s.writeServiceError(w, r, err, logEntryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

// DeleteLogEntry handles DELETE /trips/{tripId}/log-entries/{entryId}.
func (s *Server) DeleteLogEntry(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "entryId")
	if !ok {
		return
	}

	if err := s.entries.Delete(r.Context(), tripID, id); err != nil {
		s.writeServiceError(w, r, err, logEntryNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
