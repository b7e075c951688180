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

// StatsStore is the persistence surface the stats service needs
type StatsStore interface {
	InsertSession(s *models.ReadingSession) (int64, error)
	ApplySessionDelta(memberID int64, date string, words, minutes, stories int,
		streakDays int, streakStart string, longest int, level models.ReadingLevel) error
	UpdateStreakAndLevel(memberID int64, date string,
		streakDays int, streakStart string, longest int, level models.ReadingLevel) error
	GetByMemberAndDate(memberID int64, date string) (*models.DailyStat, error)
	LatestActive(memberID int64) (*models.DailyStat, error)
	LatestDate(memberID int64) (string, error)
	TrailingWordsAverage(memberID int64, from, to string) (float64, error)
	MemberTotals(memberID int64, from string) (*models.MemberStats, error)
	SessionCounts(memberID int64, from string) (total, completed int, err error)
}

// MemberStore checks member existence
type MemberStore interface {
	Exists(id int64) (bool, error)
}

// StoryStore looks up stories referenced by sessions
type StoryStore interface {
	GetByID(id int64) (*models.Story, error)
}

// AchievementEvaluator re-checks the catalog after an aggregate write.
// Evaluation failures are handled locally by the caller, never propagated.
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, memberID int64) ([]models.AchievementUnlock, error)
	CountForMember(memberID int64) (int, error)
}

// RecordSessionInput is a raw reading-session event
type RecordSessionInput struct {
	MemberID         int64     `json:"member_id"`
	StoryID          int64     `json:"story_id"`
	WordsRead        int       `json:"words_read"`
	TimeSpentSeconds int       `json:"reading_time"`
	ReadingProgress  float64   `json:"reading_progress"`
	SessionStart     time.Time `json:"session_start"`
	SessionEnd       time.Time `json:"session_end"`
}

// RecordSessionResult is the aggregate snapshot plus any unlocks the session
// triggered
type RecordSessionResult struct {
	Stat      *models.DailyStat          `json:"-"`
	Unlocks   []models.AchievementUnlock `json:"new_achievements,omitempty"`
	Streak    StreakState                `json:"streak"`
	WordsRead int                        `json:"words_read"`
}

// StatsService owns the daily aggregate: it consumes session events, applies
// streak transitions, re-derives reading levels and triggers achievement
// evaluation.
type StatsService struct {
	store        StatsStore
	members      MemberStore
	stories      StoryStore
	achievements AchievementEvaluator
	cache        cache.Cache
	cacheTTL     time.Duration
	log          *logger.Logger
	now          func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(store StatsStore, members MemberStore, stories StoryStore,
	achievements AchievementEvaluator, c cache.Cache, ttl time.Duration, log *logger.Logger) *StatsService {
	return &StatsService{
		store:        store,
		members:      members,
		stories:      stories,
		achievements: achievements,
		cache:        c,
		cacheTTL:     ttl,
		log:          log.With("service", "stats"),
		now:          time.Now,
	}
}

// RecordSession validates and applies one reading-session event. The daily
// counters are incremented atomically inside the database; streak and level
// are re-derived afterwards. Achievement evaluation runs last and its
// failure never fails the recording.
func (s *StatsService) RecordSession(ctx context.Context, in RecordSessionInput) (*RecordSessionResult, error) {
	if err := s.validateSession(in); err != nil {
		return nil, err
	}

	if exists, err := s.members.Exists(in.MemberID); err != nil {
		return nil, fmt.Errorf("failed to check member: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("member %d: %w", in.MemberID, ErrNotFound)
	}

	story, err := s.stories.GetByID(in.StoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load story: %w", err)
	}
	if story == nil {
		return nil, fmt.Errorf("story %d: %w", in.StoryID, ErrNotFound)
	}

	date := models.DateOf(in.SessionStart)

	// Streak and level recomputation assume forward-only chronological
	// writes, so sessions dated before the newest aggregate are rejected.
	latestDate, err := s.store.LatestDate(in.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest stat date: %w", err)
	}
	if latestDate != "" && date < latestDate {
		return nil, validationf("session dated %s arrives after aggregates for %s; backfill is not supported", date, latestDate)
	}

	session := &models.ReadingSession{
		MemberID:         in.MemberID,
		StoryID:          in.StoryID,
		WordsRead:        in.WordsRead,
		TimeSpentSeconds: in.TimeSpentSeconds,
		ReadingProgress:  in.ReadingProgress,
		SessionStart:     in.SessionStart,
		SessionEnd:       in.SessionEnd,
	}
	if _, err := s.store.InsertSession(session); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	stat, err := s.applyToAggregate(in, date)
	if err != nil {
		return nil, err
	}

	s.invalidateDerived(ctx, in.MemberID, date)

	result := &RecordSessionResult{
		Stat:      stat,
		Streak:    streakState(stat, models.DateOf(s.now())),
		WordsRead: stat.WordsRead,
	}

	// Secondary effect: evaluation failures are logged, not propagated, so
	// the primary write still succeeds. The evaluation is idempotent and
	// re-runnable out of band.
	unlocks, err := s.achievements.Evaluate(ctx, in.MemberID)
	if err != nil {
		s.log.Error("achievement evaluation failed", "member_id", in.MemberID, "error", err)
	} else {
		result.Unlocks = unlocks
	}

	return result, nil
}

// applyToAggregate upserts the day's counters and re-derives the streak and
// reading level.
func (s *StatsService) applyToAggregate(in RecordSessionInput, date string) (*models.DailyStat, error) {
	minutes := int(math.Ceil(float64(in.TimeSpentSeconds) / 60))
	stories := 0
	if in.ReadingProgress >= 100 {
		stories = 1
	}

	existing, err := s.store.GetByMemberAndDate(in.MemberID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load aggregate: %w", err)
	}
	yesterday, err := s.store.GetByMemberAndDate(in.MemberID, dayBefore(date))
	if err != nil {
		return nil, fmt.Errorf("failed to load previous aggregate: %w", err)
	}
	latest, err := s.store.LatestActive(in.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest aggregate: %w", err)
	}

	// Longest streak is monotone: carry the highest value ever stored.
	priorLongest := 0
	if latest != nil {
		priorLongest = latest.LongestStreakDays
	}
	if existing != nil && existing.LongestStreakDays > priorLongest {
		priorLongest = existing.LongestStreakDays
	}

	// The streak advances at most once per calendar day, on the first
	// qualifying read. An all-zero-words day never mutates it.
	streakDays, streakStart := 0, ""
	switch {
	case existing != nil && existing.WordsRead > 0:
		streakDays, streakStart = existing.ReadingStreakDays, existing.StreakStartDate
	case in.WordsRead > 0:
		streakDays, streakStart = streakTransition(date, yesterday)
	}

	longest := priorLongest
	if streakDays > longest {
		longest = streakDays
	}

	err = s.store.ApplySessionDelta(in.MemberID, date, in.WordsRead, minutes, stories,
		streakDays, streakStart, longest, models.LevelBeginner)
	if err != nil {
		return nil, err
	}

	// Level derives from the trailing-7-day average after the increment
	avg, err := s.store.TrailingWordsAverage(in.MemberID, daysAgo(date, 6), date)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trailing average: %w", err)
	}
	level := classifyByAverage(avg)

	if err := s.store.UpdateStreakAndLevel(in.MemberID, date, streakDays, streakStart, longest, level); err != nil {
		return nil, fmt.Errorf("failed to update derived fields: %w", err)
	}

	stat, err := s.store.GetByMemberAndDate(in.MemberID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to reload aggregate: %w", err)
	}
	return stat, nil
}

// GetMemberStats returns the aggregated statistics summary for a period.
func (s *StatsService) GetMemberStats(ctx context.Context, memberID int64, period string) (*models.MemberStats, error) {
	if exists, err := s.members.Exists(memberID); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("member %d: %w", memberID, ErrNotFound)
	}

	from, err := periodStart(period, s.now())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("stats:%d:%s", memberID, period)
	cached := &models.MemberStats{}
	if ok, _ := cache.GetJSON(ctx, s.cache, key, cached); ok {
		return cached, nil
	}

	stats, err := s.store.MemberTotals(memberID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate member totals: %w", err)
	}

	today := models.DateOf(s.now())
	latest, err := s.store.LatestActive(memberID)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = currentStreak(latest, today)
	if latest != nil {
		stats.LongestStreak = latest.LongestStreakDays
	}

	total, completed, err := s.store.SessionCounts(memberID, from)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		stats.CompletionRate = math.Round(float64(completed)/float64(total)*10000) / 100
	}

	earned, err := s.achievements.CountForMember(memberID)
	if err != nil {
		return nil, err
	}
	stats.AchievementsEarned = earned

	if err := cache.SetJSON(ctx, s.cache, key, stats, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache member stats", "member_id", memberID, "error", err)
	}
	return stats, nil
}

// GetStreak returns the derived streak view for a member.
func (s *StatsService) GetStreak(memberID int64) (StreakState, error) {
	latest, err := s.store.LatestActive(memberID)
	if err != nil {
		return StreakState{}, err
	}
	return streakState(latest, models.DateOf(s.now())), nil
}

// GetEfficiency computes (or serves from cache) the multi-factor efficiency
// score for a member's aggregate on the given date. An empty date means
// today.
func (s *StatsService) GetEfficiency(ctx context.Context, memberID int64, date string) (EfficiencyFactors, error) {
	if date == "" {
		date = models.DateOf(s.now())
	}
	key := fmt.Sprintf("efficiency:%d:%s", memberID, date)
	var cached EfficiencyFactors
	if ok, _ := cache.GetJSON(ctx, s.cache, key, &cached); ok {
		return cached, nil
	}

	stat, err := s.store.GetByMemberAndDate(memberID, date)
	if err != nil {
		return EfficiencyFactors{}, err
	}

	latest, err := s.store.LatestActive(memberID)
	if err != nil {
		return EfficiencyFactors{}, err
	}

	factors := efficiencyScore(stat, currentStreak(latest, models.DateOf(s.now())))
	if err := cache.SetJSON(ctx, s.cache, key, factors, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache efficiency score", "member_id", memberID, "error", err)
	}
	return factors, nil
}

// invalidateDerived drops every cached view derived from this member's
// aggregates. The caches are rebuilt on demand, never updated in place.
func (s *StatsService) invalidateDerived(ctx context.Context, memberID int64, date string) {
	prefixes := []string{
		fmt.Sprintf("stats:%d:", memberID),
		fmt.Sprintf("efficiency:%d:%s", memberID, date),
		"leaderboard:",
		"rank:",
	}
	for _, prefix := range prefixes {
		if err := s.cache.Invalidate(ctx, prefix); err != nil {
			s.log.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}

func (s *StatsService) validateSession(in RecordSessionInput) error {
	switch {
	case in.MemberID <= 0:
		return validationf("member_id must be positive")
	case in.StoryID <= 0:
		return validationf("story_id must be positive")
	case in.WordsRead < 0:
		return validationf("words_read cannot be negative")
	case in.TimeSpentSeconds < 0:
		return validationf("reading_time cannot be negative")
	case in.ReadingProgress < 0 || in.ReadingProgress > 100:
		return validationf("reading_progress must be between 0 and 100")
	case in.SessionStart.IsZero() || in.SessionEnd.IsZero():
		return validationf("session_start and session_end are required")
	case !in.SessionEnd.After(in.SessionStart):
		return validationf("session_end must be after session_start")
	}
	return nil
}
