package handlers

import (
	"net/http"

	"hekaya/internal/cache"
	"hekaya/internal/database"
)

// HealthHandler reports liveness of the database and cache
type HealthHandler struct {
	db    *database.DB
	cache cache.Cache
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, c cache.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

// Healthz pings both backing stores. A dead cache degrades the response
// but does not fail it, since every cached view can be rebuilt.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":   "ok",
		"database": "ok",
		"cache":    "ok",
	}

	if err := h.db.Ping(); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	if err := h.cache.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["cache"] = err.Error()
	}

	respondJSON(w, http.StatusOK, status)
}
