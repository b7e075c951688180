package models

import "time"

// ReadingLevel classifies a member or story by reading volume/difficulty
type ReadingLevel string

const (
	LevelBeginner     ReadingLevel = "beginner"
	LevelIntermediate ReadingLevel = "intermediate"
	LevelAdvanced     ReadingLevel = "advanced"
	LevelExpert       ReadingLevel = "expert"
)

// LevelScale is the full ordinal scale used by level-based achievement
// requirements. It is a superset of the reading levels stored on aggregates.
var LevelScale = []string{"beginner", "elementary", "intermediate", "advanced", "expert", "master"}

// LevelOrdinal returns the position of a level name on LevelScale, or -1 if
// the name is unknown.
func LevelOrdinal(name string) int {
	for i, l := range LevelScale {
		if l == name {
			return i
		}
	}
	return -1
}

// DateLayout is the canonical format for aggregate dates. Dates are stored
// and compared as strings so the three SQL dialects behave identically.
const DateLayout = "2006-01-02"

// DateOf formats a timestamp as an aggregate date key.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an aggregate date key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ReadingSession is an immutable reading event produced by the mobile app.
// Consumed once by the daily stats aggregator; kept append-only.
type ReadingSession struct {
	ID               int64
	MemberID         int64
	StoryID          int64
	WordsRead        int
	TimeSpentSeconds int
	ReadingProgress  float64 // percent, 0-100
	SessionStart     time.Time
	SessionEnd       time.Time
	CreatedAt        time.Time
}

// Completed reports whether the session finished the story.
func (s *ReadingSession) Completed() bool {
	return s.ReadingProgress >= 100
}

// DailyStat is the single per-member-per-day aggregate row
type DailyStat struct {
	ID                 int64
	MemberID           int64
	StatDate           string // DateLayout
	WordsRead          int
	StoriesCompleted   int
	ReadingTimeMinutes int
	ReadingStreakDays  int
	StreakStartDate    string // DateLayout, empty when no streak
	LongestStreakDays  int
	ReadingLevel       ReadingLevel
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MemberStats is the aggregated statistics summary returned to callers
type MemberStats struct {
	TotalWords         int          `json:"total_words"`
	TotalStories       int          `json:"total_stories"`
	TotalTimeMinutes   int          `json:"total_time_minutes"`
	ReadingDays        int          `json:"reading_days"`
	CurrentStreak      int          `json:"current_streak"`
	LongestStreak      int          `json:"longest_streak"`
	DailyAverage       float64      `json:"daily_average"`
	CompletionRate     float64      `json:"completion_rate"`
	ReadingLevel       ReadingLevel `json:"reading_level"`
	AchievementsEarned int          `json:"achievements_earned"`
}
