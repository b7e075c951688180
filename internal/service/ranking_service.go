package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"hekaya/internal/cache"
	"hekaya/internal/logger"
	"hekaya/internal/models"
)

// RankingStore provides the scored population views ranking derives from
type RankingStore interface {
	PopulationScores(metric models.LeaderboardMetric, from string, levelFilter string) ([]models.LeaderboardEntry, error)
	GlobalTotals(from string) (words, stories, members int, err error)
	GlobalTotalsBetween(from, to string) (words, stories, members int, err error)
}

// AchievementScoreStore provides the achievement-points population view
type AchievementScoreStore interface {
	PopulationScores(from time.Time) ([]models.LeaderboardEntry, error)
}

var rankMetrics = []models.LeaderboardMetric{
	models.MetricWords, models.MetricStories, models.MetricStreaks, models.MetricAchievements,
}

// GlobalPerformance summarizes the whole population for a period with a
// trend comparison against the previous window.
type GlobalPerformance struct {
	Period            string  `json:"period"`
	TotalWords        int     `json:"total_words"`
	TotalStories      int     `json:"total_stories"`
	ActiveMembers     int     `json:"active_members"`
	AvgWordsPerMember float64 `json:"avg_words_per_member"`
	WordsTrendPercent float64 `json:"words_trend_percent"`
}

// RankingService computes leaderboards, single-member competition ranks and
// percentiles over scored populations.
type RankingService struct {
	store        RankingStore
	achievements AchievementScoreStore
	cache        cache.Cache
	cacheTTL     time.Duration
	log          *logger.Logger
	now          func() time.Time
}

// NewRankingService creates a new ranking service
func NewRankingService(store RankingStore, achievements AchievementScoreStore,
	c cache.Cache, ttl time.Duration, log *logger.Logger) *RankingService {
	return &RankingService{
		store:        store,
		achievements: achievements,
		cache:        c,
		cacheTTL:     ttl,
		log:          log.With("service", "ranking"),
		now:          time.Now,
	}
}

// Leaderboard returns the paginated listing for a metric and period. The
// rank on each entry is its position in the sorted listing (offset+index+1),
// which is the display notion, distinct from the competition rank that
// MemberRanks computes.
func (s *RankingService) Leaderboard(ctx context.Context, metric models.LeaderboardMetric,
	period, levelFilter string, limit, offset int) (*models.Leaderboard, error) {

	if !validMetric(metric) {
		return nil, validationf("unknown metric %q", metric)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	key := fmt.Sprintf("leaderboard:%s:%s:%s:%d:%d", metric, period, levelFilter, limit, offset)
	cached := &models.Leaderboard{}
	if ok, _ := cache.GetJSON(ctx, s.cache, key, cached); ok {
		return cached, nil
	}

	population, err := s.population(metric, period, levelFilter)
	if err != nil {
		return nil, err
	}

	board := &models.Leaderboard{
		Metric:       metric,
		Period:       period,
		TotalEntries: len(population),
		Entries:      []models.LeaderboardEntry{},
	}

	for i := offset; i < len(population) && i < offset+limit; i++ {
		entry := population[i]
		entry.Rank = i + 1
		board.Entries = append(board.Entries, entry)
	}

	if err := cache.SetJSON(ctx, s.cache, key, board, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache leaderboard", "key", key, "error", err)
	}
	return board, nil
}

// MemberRanks computes the competition rank, percentile and score of one
// member across every metric for a period.
func (s *RankingService) MemberRanks(ctx context.Context, memberID int64, period string) (map[models.LeaderboardMetric]models.MemberRank, error) {
	key := fmt.Sprintf("rank:%d:%s", memberID, period)
	cached := map[models.LeaderboardMetric]models.MemberRank{}
	if ok, _ := cache.GetJSON(ctx, s.cache, key, &cached); ok {
		return cached, nil
	}

	result := make(map[models.LeaderboardMetric]models.MemberRank, len(rankMetrics))
	for _, metric := range rankMetrics {
		population, err := s.population(metric, period, "")
		if err != nil {
			return nil, err
		}
		result[metric] = competitionRank(population, memberID)
	}

	if err := cache.SetJSON(ctx, s.cache, key, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache member ranks", "member_id", memberID, "error", err)
	}
	return result, nil
}

// GlobalStats aggregates population-wide performance with a trend against
// the previous period window.
func (s *RankingService) GlobalStats(ctx context.Context, period string) (*GlobalPerformance, error) {
	now := s.now()
	from, err := periodStart(period, now)
	if err != nil {
		return nil, err
	}

	key := "leaderboard:global:" + period
	cached := &GlobalPerformance{}
	if ok, _ := cache.GetJSON(ctx, s.cache, key, cached); ok {
		return cached, nil
	}

	words, stories, members, err := s.store.GlobalTotals(from)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate global totals: %w", err)
	}

	perf := &GlobalPerformance{
		Period:        period,
		TotalWords:    words,
		TotalStories:  stories,
		ActiveMembers: members,
	}
	if members > 0 {
		perf.AvgWordsPerMember = math.Round(float64(words)/float64(members)*100) / 100
	}

	if period != "all" {
		prevFrom, err := previousPeriodStart(period, now)
		if err == nil && prevFrom != from {
			prevWords, _, _, err := s.store.GlobalTotalsBetween(prevFrom, from)
			if err != nil {
				return nil, fmt.Errorf("failed to aggregate previous window: %w", err)
			}
			if prevWords > 0 {
				perf.WordsTrendPercent = math.Round((float64(words)-float64(prevWords))/float64(prevWords)*10000) / 100
			}
		}
	}

	if err := cache.SetJSON(ctx, s.cache, key, perf, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache global stats", "period", period, "error", err)
	}
	return perf, nil
}

// WarmLeaderboards recomputes the first page of every common leaderboard so
// cold caches don't land on request paths. Invoked by the scheduler.
func (s *RankingService) WarmLeaderboards(ctx context.Context) {
	for _, metric := range rankMetrics {
		for _, period := range []string{"week", "month", "all"} {
			key := fmt.Sprintf("leaderboard:%s:%s:%s:%d:%d", metric, period, "", 20, 0)
			if err := s.cache.Invalidate(ctx, key); err != nil {
				s.log.Warn("cache warm invalidation failed", "key", key, "error", err)
			}
			if _, err := s.Leaderboard(ctx, metric, period, "", 20, 0); err != nil {
				s.log.Warn("leaderboard warm failed", "metric", metric, "period", period, "error", err)
			}
		}
	}
}

// population loads the full scored population for a metric, ordered by the
// metric's documented sort.
func (s *RankingService) population(metric models.LeaderboardMetric, period, levelFilter string) ([]models.LeaderboardEntry, error) {
	from, err := periodStart(period, s.now())
	if err != nil {
		return nil, err
	}

	if metric == models.MetricAchievements {
		fromTime, err := time.Parse(models.DateLayout, from)
		if err != nil {
			return nil, err
		}
		return s.achievements.PopulationScores(fromTime)
	}
	return s.store.PopulationScores(metric, from, levelFilter)
}

// competitionRank derives the standard competition rank for one member:
// 1 + the count of members whose score strictly exceeds theirs, so tied
// members share a rank and the next rank skips accordingly.
func competitionRank(population []models.LeaderboardEntry, memberID int64) models.MemberRank {
	rank := models.MemberRank{TotalParticipants: len(population)}

	found := false
	for _, entry := range population {
		if entry.MemberID == memberID {
			rank.Score = entry.Score
			found = true
			break
		}
	}
	if !found || len(population) == 0 {
		return models.MemberRank{TotalParticipants: len(population)}
	}

	greater := 0
	for _, entry := range population {
		if entry.Score > rank.Score {
			greater++
		}
	}
	rank.Rank = greater + 1

	total := float64(len(population))
	rank.Percentile = int(math.Round((total - float64(rank.Rank) + 1) / total * 100))
	return rank
}

func validMetric(metric models.LeaderboardMetric) bool {
	for _, m := range rankMetrics {
		if m == metric {
			return true
		}
	}
	return false
}
