package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"propertyBack/internal/cache"
	"propertyBack/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNoRecord):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidProperty):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateProperty):
		return http.StatusConflict
	case errors.Is(err, cache.ErrStatsUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
