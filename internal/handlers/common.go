package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/fleet"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps the core error taxonomy onto HTTP statuses: not-found and
// conflict are surfaced distinctly, everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "NOT_FOUND"})
	case errors.Is(err, fleet.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"message": "DUPLICATE_ACTIVE_ASSIGNMENT"})
	case errors.Is(err, fleet.ErrNoAvailableUnits):
		writeJSON(w, http.StatusConflict, map[string]string{"message": "NO_AVAILABLE_UNITS"})
	case errors.Is(err, fleet.ErrInvalidCount):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "INVALID_COUNT"})
	default:
		log.WithError(err).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "SERVER_ERROR"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "INVALID_JSON"})
		return false
	}
	return true
}
