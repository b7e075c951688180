package service

import (
	"time"

	"hekaya/internal/models"
)

// StreakStatus describes the state of a member's reading streak
type StreakStatus string

const (
	StreakActive   StreakStatus = "active"
	StreakBroken   StreakStatus = "broken"
	StreakInactive StreakStatus = "inactive"
)

// StreakState is the derived streak view for a member. It is computed from
// aggregate history, never persisted on its own.
type StreakState struct {
	Current   int          `json:"current_streak"`
	Longest   int          `json:"longest_streak"`
	StartDate string       `json:"streak_start_date,omitempty"`
	Status    StreakStatus `json:"status"`
}

// streakTransition computes the streak fields for a day's first qualifying
// read (words > 0). A qualifying read the day after another qualifying read
// extends the chain and carries the start date forward; any gap restarts the
// chain at one.
func streakTransition(today string, yesterday *models.DailyStat) (current int, startDate string) {
	if yesterday != nil && yesterday.WordsRead > 0 && yesterday.ReadingStreakDays > 0 {
		start := yesterday.StreakStartDate
		if start == "" {
			start = yesterday.StatDate
		}
		return yesterday.ReadingStreakDays + 1, start
	}
	return 1, today
}

// currentStreak applies the freshness gate: the stored streak counts as
// current only when the latest qualifying row is dated today or yesterday.
// Older rows retain their last computed snapshot but report 0 here; the
// break is detected lazily, at read time or on the next qualifying day.
func currentStreak(latest *models.DailyStat, today string) int {
	if latest == nil || latest.WordsRead == 0 {
		return 0
	}
	if latest.StatDate == today || latest.StatDate == dayBefore(today) {
		return latest.ReadingStreakDays
	}
	return 0
}

// streakState assembles the full derived view.
func streakState(latest *models.DailyStat, today string) StreakState {
	state := StreakState{Status: StreakInactive}
	if latest == nil {
		return state
	}

	state.Longest = latest.LongestStreakDays
	state.Current = currentStreak(latest, today)
	if state.Current > 0 {
		state.StartDate = latest.StreakStartDate
		state.Status = StreakActive
	} else if latest.ReadingStreakDays > 0 {
		state.Status = StreakBroken
	}
	return state
}

// dayBefore returns the calendar day preceding a DateLayout date. Malformed
// dates return "" so comparisons simply fail.
func dayBefore(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(models.DateLayout)
}

// daysAgo returns the date n days before the given date.
func daysAgo(date string, n int) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -n).Format(models.DateLayout)
}
