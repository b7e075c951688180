package handlers

import (
	"net/http"
	"strconv"

	"hekaya/internal/logger"
	"hekaya/internal/models"
	"hekaya/internal/service"
)

// RankingHandler serves leaderboards, per-member ranks and platform totals
type RankingHandler struct {
	ranking *service.RankingService
	log     *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(ranking *service.RankingService, log *logger.Logger) *RankingHandler {
	return &RankingHandler{ranking: ranking, log: log.With("handler", "ranking")}
}

// Leaderboard returns the paginated listing for one metric.
// Query parameters: metric (default words), period (default all),
// level, limit, offset.
func (h *RankingHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	metric := models.LeaderboardMetric(q.Get("metric"))
	if metric == "" {
		metric = models.MetricWords
	}
	period := q.Get("period")
	if period == "" {
		period = "all"
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	board, err := h.ranking.Leaderboard(r.Context(), metric, period, q.Get("level"), limit, offset)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// MemberRank returns one member's competition rank and percentile across
// every metric for a period.
func (h *RankingHandler) MemberRank(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}

	ranks, err := h.ranking.MemberRanks(r.Context(), memberID, period)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, ranks)
}

// GlobalStats returns platform-wide totals and the trend against the
// previous period.
func (h *RankingHandler) GlobalStats(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}

	stats, err := h.ranking.GlobalStats(r.Context(), period)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
