package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/vega/internal/options"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondEngineError maps engine errors onto HTTP status codes
// 입력 오류 → 400, 미수렴 → 422, 그 외 → 500
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, options.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, options.ErrNoConvergence):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
