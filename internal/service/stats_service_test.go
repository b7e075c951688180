package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hekaya/internal/cache"
	"hekaya/internal/logger"
	"hekaya/internal/models"
)

type statsFixture struct {
	svc       *StatsService
	store     *fakeStatsStore
	evaluator *fakeEvaluator
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()

	store := newFakeStatsStore()
	evaluator := &fakeEvaluator{}
	svc := NewStatsService(store, &fakeMemberStore{exists: true},
		&fakeStoryStore{stories: map[int64]*models.Story{
			10: {ID: 10, Title: "The Lighthouse", Category: "adventure"},
		}},
		evaluator, cache.NewMemory(), time.Minute, logger.NewNop())
	return &statsFixture{svc: svc, store: store, evaluator: evaluator}
}

func sessionOn(day time.Time, words, seconds int, progress float64) RecordSessionInput {
	return RecordSessionInput{
		MemberID:         1,
		StoryID:          10,
		WordsRead:        words,
		TimeSpentSeconds: seconds,
		ReadingProgress:  progress,
		SessionStart:     day,
		SessionEnd:       day.Add(time.Duration(seconds) * time.Second),
	}
}

func TestRecordSessionFirstDay(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 7, 30, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	result, err := f.svc.RecordSession(context.Background(), sessionOn(day, 600, 300, 100))
	require.NoError(t, err)

	assert.Equal(t, 600, result.WordsRead)
	assert.Equal(t, 1, result.Streak.Current)
	assert.Equal(t, StreakActive, result.Streak.Status)
	assert.Equal(t, "2026-08-31", result.Streak.StartDate)

	stat := f.store.stats["2026-08-31"]
	require.NotNil(t, stat)
	assert.Equal(t, 600, stat.WordsRead)
	assert.Equal(t, 1, stat.StoriesCompleted)
	assert.Equal(t, 5, stat.ReadingTimeMinutes) // 300s rounds up to full minutes
	assert.Equal(t, 1, stat.LongestStreakDays)
	assert.Equal(t, models.LevelBeginner, stat.ReadingLevel)

	assert.Equal(t, 1, f.evaluator.calls)
	require.Len(t, f.store.sessions, 1)
}

func TestRecordSessionSameDayAccumulates(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	_, err := f.svc.RecordSession(context.Background(), sessionOn(day, 600, 300, 100))
	require.NoError(t, err)
	_, err = f.svc.RecordSession(context.Background(), sessionOn(day.Add(2*time.Hour), 400, 120, 60))
	require.NoError(t, err)

	stat := f.store.stats["2026-08-31"]
	assert.Equal(t, 1000, stat.WordsRead)
	assert.Equal(t, 1, stat.StoriesCompleted, "60%% progress must not count as completed")
	assert.Equal(t, 7, stat.ReadingTimeMinutes)
	assert.Equal(t, 1, stat.ReadingStreakDays, "streak advances at most once per day")
}

func TestRecordSessionStreakAcrossDays(t *testing.T) {
	f := newStatsFixture(t)
	day1 := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day2.AddDate(0, 0, 1)

	for i, day := range []time.Time{day1, day2, day3} {
		d := day
		f.svc.now = func() time.Time { return d }
		result, err := f.svc.RecordSession(context.Background(), sessionOn(day, 500, 200, 50))
		require.NoError(t, err)
		assert.Equal(t, i+1, result.Streak.Current)
		assert.Equal(t, "2026-08-29", result.Streak.StartDate)
	}

	assert.Equal(t, 3, f.store.stats["2026-08-31"].LongestStreakDays)
}

func TestRecordSessionGapRestartsStreak(t *testing.T) {
	f := newStatsFixture(t)
	day1 := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	gapDay := day2.AddDate(0, 0, 3)

	for _, day := range []time.Time{day1, day2} {
		d := day
		f.svc.now = func() time.Time { return d }
		_, err := f.svc.RecordSession(context.Background(), sessionOn(day, 500, 200, 50))
		require.NoError(t, err)
	}

	f.svc.now = func() time.Time { return gapDay }
	result, err := f.svc.RecordSession(context.Background(), sessionOn(gapDay, 500, 200, 50))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Streak.Current, "a gap restarts the chain")
	assert.Equal(t, "2026-08-29", result.Streak.StartDate)
	assert.Equal(t, 2, result.Streak.Longest, "longest streak survives the break")
}

func TestRecordSessionZeroWordsDoesNotStartStreak(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	result, err := f.svc.RecordSession(context.Background(), sessionOn(day, 0, 60, 10))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Streak.Current)
	assert.Equal(t, 0, f.store.stats["2026-08-31"].ReadingStreakDays)
}

func TestRecordSessionRejectsBackfill(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	_, err := f.svc.RecordSession(context.Background(), sessionOn(day, 500, 200, 50))
	require.NoError(t, err)

	earlier := day.AddDate(0, 0, -2)
	_, err = f.svc.RecordSession(context.Background(), sessionOn(earlier, 500, 200, 50))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordSessionValidation(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*RecordSessionInput)
	}{
		{"zero member", func(in *RecordSessionInput) { in.MemberID = 0 }},
		{"zero story", func(in *RecordSessionInput) { in.StoryID = 0 }},
		{"negative words", func(in *RecordSessionInput) { in.WordsRead = -1 }},
		{"negative time", func(in *RecordSessionInput) { in.TimeSpentSeconds = -1 }},
		{"progress above 100", func(in *RecordSessionInput) { in.ReadingProgress = 101 }},
		{"missing start", func(in *RecordSessionInput) { in.SessionStart = time.Time{} }},
		{"end before start", func(in *RecordSessionInput) { in.SessionEnd = in.SessionStart.Add(-time.Minute) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sessionOn(day, 500, 200, 50)
			tt.mutate(&in)
			_, err := f.svc.RecordSession(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRecordSessionUnknownMemberAndStory(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	in := sessionOn(day, 500, 200, 50)
	in.StoryID = 999
	_, err := f.svc.RecordSession(context.Background(), in)
	assert.ErrorIs(t, err, ErrNotFound)

	missing := NewStatsService(newFakeStatsStore(), &fakeMemberStore{exists: false},
		&fakeStoryStore{}, &fakeEvaluator{}, cache.NewMemory(), time.Minute, logger.NewNop())
	_, err = missing.RecordSession(context.Background(), sessionOn(day, 500, 200, 50))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordSessionEvaluationFailureDoesNotFail(t *testing.T) {
	f := newStatsFixture(t)
	f.evaluator.err = assert.AnError
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	result, err := f.svc.RecordSession(context.Background(), sessionOn(day, 500, 200, 50))
	require.NoError(t, err, "evaluation failure must not fail the recording")
	assert.Empty(t, result.Unlocks)
}

func TestRecordSessionLevelFromTrailingAverage(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	// A single 3000-word day averages 3000 over its window
	_, err := f.svc.RecordSession(context.Background(), sessionOn(day, 3000, 600, 100))
	require.NoError(t, err)
	assert.Equal(t, models.LevelAdvanced, f.store.stats["2026-08-31"].ReadingLevel)
}

func TestGetMemberStats(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	f.store.totals = models.MemberStats{
		TotalWords: 12000, TotalStories: 4, TotalTimeMinutes: 90, ReadingDays: 6,
	}
	f.store.sessTotal = 10
	f.store.sessCompleted = 4
	f.store.stats["2026-08-31"] = &models.DailyStat{
		StatDate: "2026-08-31", WordsRead: 500,
		ReadingStreakDays: 6, LongestStreakDays: 9,
	}
	f.evaluator.count = 3

	stats, err := f.svc.GetMemberStats(context.Background(), 1, "all")
	require.NoError(t, err)

	assert.Equal(t, 12000, stats.TotalWords)
	assert.Equal(t, 6, stats.CurrentStreak)
	assert.Equal(t, 9, stats.LongestStreak)
	assert.InDelta(t, 40.0, stats.CompletionRate, 1e-9)
	assert.Equal(t, 3, stats.AchievementsEarned)

	_, err = f.svc.GetMemberStats(context.Background(), 1, "fortnight")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetEfficiencyDefaultsToToday(t *testing.T) {
	f := newStatsFixture(t)
	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	f.store.stats["2026-08-31"] = &models.DailyStat{
		StatDate: "2026-08-31", WordsRead: 2000, ReadingTimeMinutes: 10,
		StoriesCompleted: 1, ReadingStreakDays: 30,
		ReadingLevel: models.LevelIntermediate,
	}

	factors, err := f.svc.GetEfficiency(context.Background(), 1, "")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, factors.Total, 1e-9)

	// A day without activity scores zero
	factors, err = f.svc.GetEfficiency(context.Background(), 1, "2026-08-15")
	require.NoError(t, err)
	assert.Zero(t, factors.Total)
}
