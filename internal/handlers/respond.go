package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hekaya/internal/logger"
	"hekaya/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps service errors onto HTTP status codes and logs
// everything that isn't a caller mistake.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrAccessDenied):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrAlreadyClaimed):
		status = http.StatusConflict
		message = err.Error()
	default:
		log.Error("request failed", "error", err)
	}

	respondJSON(w, status, map[string]string{"error": message})
}
