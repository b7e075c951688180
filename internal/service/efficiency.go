package service

import (
	"math"

	"hekaya/internal/models"
)

// Efficiency sub-score weights. The four normalized components sum to a
// single 0-100 score.
const (
	weightSpeed       = 0.3
	weightCompletion  = 0.3
	weightGoal        = 0.2
	weightConsistency = 0.2

	// Pace that earns a full speed sub-score, in words per minute
	fullSpeedWPM = 200

	// Streak length that earns a full consistency sub-score
	fullConsistencyDays = 30
)

// EfficiencyFactors breaks the score into its weighted components
type EfficiencyFactors struct {
	Speed       float64 `json:"speed"`
	Completion  float64 `json:"completion"`
	Goal        float64 `json:"goal"`
	Consistency float64 `json:"consistency"`
	Total       float64 `json:"total"`
}

// efficiencyScore computes the multi-factor reading-efficiency score for one
// day's aggregate. Pure function; the caching sits at the service boundary.
func efficiencyScore(stat *models.DailyStat, streakDays int) EfficiencyFactors {
	var factors EfficiencyFactors
	if stat == nil {
		return factors
	}

	var wpm float64
	if stat.ReadingTimeMinutes > 0 {
		wpm = float64(stat.WordsRead) / float64(stat.ReadingTimeMinutes)
	}
	factors.Speed = math.Min(100, wpm/fullSpeedWPM*100) * weightSpeed

	if stat.StoriesCompleted > 0 {
		factors.Completion = 100 * weightCompletion
	}

	goalProgress := float64(stat.WordsRead) / float64(dailyGoal(stat.ReadingLevel)) * 100
	factors.Goal = math.Min(100, goalProgress) * weightGoal

	factors.Consistency = math.Min(100, float64(streakDays)/fullConsistencyDays*100) * weightConsistency

	factors.Total = factors.Speed + factors.Completion + factors.Goal + factors.Consistency
	return factors
}
