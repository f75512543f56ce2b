package handler

import "net/http"

// GetConfiguration handles GET /trips/{tripId}/configuration.
// A trip without a stored configuration gets the defaults, without an id.
func (s *Server) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	cfg, err := s.configs.Get(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, configurationToResponse(cfg))
}

// PutConfiguration handles PUT /trips/{tripId}/configuration.
// Changes apply to the next log generation; existing logs are not touched.
func (s *Server) PutConfiguration(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body configurationRequest
	if !decodeBody(w, r, &body) {
		return
	}

	saved, err := s.configs.Upsert(r.Context(), body.toConfiguration(tripID))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, configurationToResponse(saved))
}
