package service

import (
	"time"

	"hekaya/internal/models"
)

// Valid period names for statistics and leaderboard windows
var validPeriods = map[string]bool{
	"day": true, "week": true, "month": true,
	"quarter": true, "year": true, "all": true,
}

// periodStart resolves a period name to its calendar-aligned lower bound as
// an aggregate date string. "week" starts on Monday (ISO); "all" has no
// lower bound and resolves to the zero date.
func periodStart(period string, now time.Time) (string, error) {
	var start time.Time
	switch period {
	case "day":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday closes the ISO week
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -(weekday - 1))
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "quarter":
		quarterMonth := time.Month(((int(now.Month())-1)/3)*3 + 1)
		start = time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	case "all":
		return "0001-01-01", nil
	default:
		return "", validationf("unknown period %q", period)
	}
	return models.DateOf(start), nil
}

// previousPeriodStart returns the lower bound of the window immediately
// before the given period, for trend comparisons. For "all" there is no
// previous window; the same zero date is returned.
func previousPeriodStart(period string, now time.Time) (string, error) {
	switch period {
	case "day":
		return periodStart(period, now.AddDate(0, 0, -1))
	case "week":
		return periodStart(period, now.AddDate(0, 0, -7))
	case "month":
		return periodStart(period, now.AddDate(0, -1, 0))
	case "quarter":
		return periodStart(period, now.AddDate(0, -3, 0))
	case "year":
		return periodStart(period, now.AddDate(-1, 0, 0))
	case "all":
		return "0001-01-01", nil
	default:
		return "", validationf("unknown period %q", period)
	}
}
