package handlers

import (
	"net/http"

	"hekaya/internal/logger"
	"hekaya/internal/service"
)

// AchievementHandler serves a member's unlocks, per-type progress and the
// claim operation
type AchievementHandler struct {
	achievements *service.AchievementService
	log          *logger.Logger
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievements *service.AchievementService, log *logger.Logger) *AchievementHandler {
	return &AchievementHandler{achievements: achievements, log: log.With("handler", "achievements")}
}

// List returns every achievement the member has unlocked, newest first.
func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	unlocks, err := h.achievements.List(r.Context(), memberID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": unlocks,
		"count":        len(unlocks),
	})
}

// Progress returns the progress toward the next tier of every achievement
// type in the catalog.
func (h *AchievementHandler) Progress(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	progress, err := h.achievements.Progress(r.Context(), memberID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

// Claim marks an unlocked achievement as claimed and returns the points
// awarded. Claiming twice is a conflict.
func (h *AchievementHandler) Claim(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}
	achievementID, err := pathID(r, "achievementID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid achievement id"})
		return
	}

	result, err := h.achievements.Claim(r.Context(), achievementID, memberID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
