package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hekaya/internal/logger"
	"hekaya/internal/models"
	"hekaya/internal/service"
)

// StatsHandler handles session recording and the derived stats reads
type StatsHandler struct {
	stats *service.StatsService
	log   *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *service.StatsService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, log: log.With("handler", "stats")}
}

// RecordSession ingests one reading-session event.
func (h *StatsHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	var in service.RecordSessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.stats.RecordSession(r.Context(), in)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// MemberStats returns the aggregated stats for a member over a period.
// Period defaults to "all".
func (h *StatsHandler) MemberStats(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}

	stats, err := h.stats.GetMemberStats(r.Context(), memberID, period)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Streak returns the member's current streak state.
func (h *StatsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	streak, err := h.stats.GetStreak(memberID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, streak)
}

// Efficiency returns the efficiency score breakdown for one day.
// Date defaults to today.
func (h *StatsHandler) Efficiency(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	date := r.URL.Query().Get("date")
	if date != "" {
		if _, perr := models.ParseDate(date); perr != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	factors, err := h.stats.GetEfficiency(r.Context(), memberID, date)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, factors)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
