package service

import (
	"context"
	"time"

	"hekaya/internal/models"
)

// In-memory store fakes for a single member. They mirror the SQL semantics
// the repositories provide, including the additive daily upsert.

type fakeAchievementStore struct {
	nextID  int64
	unlocks []*models.AchievementUnlock
}

func (f *fakeAchievementStore) InsertUnlockIgnore(u *models.AchievementUnlock) (bool, error) {
	for _, existing := range f.unlocks {
		if existing.MemberID == u.MemberID && existing.Type == u.Type && existing.Level == u.Level {
			return false, nil
		}
	}
	f.nextID++
	u.ID = f.nextID
	stored := *u
	f.unlocks = append(f.unlocks, &stored)
	return true, nil
}

func (f *fakeAchievementStore) GetByID(id int64) (*models.AchievementUnlock, error) {
	for _, u := range f.unlocks {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAchievementStore) ListByMember(memberID int64) ([]models.AchievementUnlock, error) {
	var result []models.AchievementUnlock
	for i := len(f.unlocks) - 1; i >= 0; i-- {
		if f.unlocks[i].MemberID == memberID {
			result = append(result, *f.unlocks[i])
		}
	}
	return result, nil
}

func (f *fakeAchievementStore) UnlockedLevels(memberID int64) (map[models.AchievementType]map[int]bool, error) {
	result := make(map[models.AchievementType]map[int]bool)
	for _, u := range f.unlocks {
		if u.MemberID != memberID {
			continue
		}
		if result[u.Type] == nil {
			result[u.Type] = make(map[int]bool)
		}
		result[u.Type][u.Level] = true
	}
	return result, nil
}

func (f *fakeAchievementStore) MarkClaimed(id int64, at time.Time) (bool, error) {
	for _, u := range f.unlocks {
		if u.ID == id && !u.IsClaimed {
			u.IsClaimed = true
			claimedAt := at
			u.ClaimedAt = &claimedAt
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAchievementStore) CountByMember(memberID int64) (int, error) {
	count := 0
	for _, u := range f.unlocks {
		if u.MemberID == memberID {
			count++
		}
	}
	return count, nil
}

type fakeProgressStore struct {
	progress models.MemberProgress
	latest   *models.DailyStat
}

func (f *fakeProgressStore) MemberProgress(memberID int64, goalWords int) (*models.MemberProgress, error) {
	copied := f.progress
	return &copied, nil
}

func (f *fakeProgressStore) LatestActive(memberID int64) (*models.DailyStat, error) {
	if f.latest == nil {
		return nil, nil
	}
	copied := *f.latest
	return &copied, nil
}

type fakeStatsStore struct {
	sessions      []models.ReadingSession
	stats         map[string]*models.DailyStat
	totals        models.MemberStats
	sessTotal     int
	sessCompleted int
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: make(map[string]*models.DailyStat)}
}

func (f *fakeStatsStore) InsertSession(s *models.ReadingSession) (int64, error) {
	f.sessions = append(f.sessions, *s)
	return int64(len(f.sessions)), nil
}

func (f *fakeStatsStore) ApplySessionDelta(memberID int64, date string, words, minutes, stories int,
	streakDays int, streakStart string, longest int, level models.ReadingLevel) error {

	if row, ok := f.stats[date]; ok {
		row.WordsRead += words
		row.StoriesCompleted += stories
		row.ReadingTimeMinutes += minutes
		return nil
	}
	f.stats[date] = &models.DailyStat{
		MemberID:           memberID,
		StatDate:           date,
		WordsRead:          words,
		StoriesCompleted:   stories,
		ReadingTimeMinutes: minutes,
		ReadingStreakDays:  streakDays,
		StreakStartDate:    streakStart,
		LongestStreakDays:  longest,
		ReadingLevel:       level,
	}
	return nil
}

func (f *fakeStatsStore) UpdateStreakAndLevel(memberID int64, date string,
	streakDays int, streakStart string, longest int, level models.ReadingLevel) error {

	if row, ok := f.stats[date]; ok {
		row.ReadingStreakDays = streakDays
		row.StreakStartDate = streakStart
		row.LongestStreakDays = longest
		row.ReadingLevel = level
	}
	return nil
}

func (f *fakeStatsStore) GetByMemberAndDate(memberID int64, date string) (*models.DailyStat, error) {
	row, ok := f.stats[date]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeStatsStore) LatestActive(memberID int64) (*models.DailyStat, error) {
	var latest *models.DailyStat
	for _, row := range f.stats {
		if row.WordsRead == 0 {
			continue
		}
		if latest == nil || row.StatDate > latest.StatDate {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeStatsStore) LatestDate(memberID int64) (string, error) {
	max := ""
	for date := range f.stats {
		if date > max {
			max = date
		}
	}
	return max, nil
}

func (f *fakeStatsStore) TrailingWordsAverage(memberID int64, from, to string) (float64, error) {
	sum, count := 0, 0
	for date, row := range f.stats {
		if date >= from && date <= to {
			sum += row.WordsRead
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (f *fakeStatsStore) MemberTotals(memberID int64, from string) (*models.MemberStats, error) {
	copied := f.totals
	return &copied, nil
}

func (f *fakeStatsStore) SessionCounts(memberID int64, from string) (int, int, error) {
	return f.sessTotal, f.sessCompleted, nil
}

type fakeMemberStore struct {
	exists bool
}

func (f *fakeMemberStore) Exists(id int64) (bool, error) {
	return f.exists, nil
}

type fakeStoryStore struct {
	stories map[int64]*models.Story
}

func (f *fakeStoryStore) GetByID(id int64) (*models.Story, error) {
	return f.stories[id], nil
}

type fakeEvaluator struct {
	unlocks []models.AchievementUnlock
	err     error
	count   int
	calls   int
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, memberID int64) ([]models.AchievementUnlock, error) {
	f.calls++
	return f.unlocks, f.err
}

func (f *fakeEvaluator) CountForMember(memberID int64) (int, error) {
	return f.count, nil
}

type fakeRankingStore struct {
	entries   map[models.LeaderboardMetric][]models.LeaderboardEntry
	words     int
	stories   int
	members   int
	prevWords int
}

func (f *fakeRankingStore) PopulationScores(metric models.LeaderboardMetric, from, levelFilter string) ([]models.LeaderboardEntry, error) {
	return f.entries[metric], nil
}

func (f *fakeRankingStore) GlobalTotals(from string) (int, int, int, error) {
	return f.words, f.stories, f.members, nil
}

func (f *fakeRankingStore) GlobalTotalsBetween(from, to string) (int, int, int, error) {
	return f.prevWords, 0, 0, nil
}

type fakeAchievementScores struct {
	entries []models.LeaderboardEntry
}

func (f *fakeAchievementScores) PopulationScores(from time.Time) ([]models.LeaderboardEntry, error) {
	return f.entries, nil
}
