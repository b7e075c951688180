package models

// LeaderboardMetric selects what a leaderboard is ordered by
type LeaderboardMetric string

const (
	MetricWords        LeaderboardMetric = "words"
	MetricStories      LeaderboardMetric = "stories"
	MetricStreaks      LeaderboardMetric = "streaks"
	MetricAchievements LeaderboardMetric = "achievements"
)

// LeaderboardEntry is one row of a leaderboard listing. Rank reflects the
// position within the sorted, paginated listing (offset + index + 1), not
// the population-wide competition rank.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name"`
	Score      int    `json:"score"`

	// Metric-specific extras
	TotalWords       int          `json:"total_words,omitempty"`
	StoriesCompleted int          `json:"stories_completed,omitempty"`
	BestStreak       int          `json:"best_streak,omitempty"`
	AchievementCount int          `json:"achievement_count,omitempty"`
	ReadingLevel     ReadingLevel `json:"reading_level,omitempty"`
}

// Leaderboard is a paginated leaderboard response
type Leaderboard struct {
	Metric       LeaderboardMetric  `json:"metric"`
	Period       string             `json:"period"`
	Entries      []LeaderboardEntry `json:"entries"`
	TotalEntries int                `json:"total_entries"`
}

// MemberRank is the population-wide competition rank of one member for one
// metric: rank = 1 + number of members whose score strictly exceeds it.
type MemberRank struct {
	Rank              int `json:"rank"`
	TotalParticipants int `json:"total_participants"`
	Percentile        int `json:"percentile"`
	Score             int `json:"score"`
}
