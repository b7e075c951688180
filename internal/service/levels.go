package service

import "hekaya/internal/models"

// Reading-level thresholds applied to the trailing-7-day average of daily
// words read.
const (
	intermediateAvgWords = 1000
	advancedAvgWords     = 2500
	expertAvgWords       = 5000
)

// dailyWordGoals maps a reading level to its daily word goal. This table is
// deliberately separate from the reading-level thresholds above: the goal is
// what a member at that level should aim for each day, not the boundary that
// put them there.
var dailyWordGoals = map[models.ReadingLevel]int{
	models.LevelBeginner:     500,
	models.LevelIntermediate: 1000,
	models.LevelAdvanced:     2000,
	models.LevelExpert:       3500,
}

// goalGetterWords is the flat daily goal the goal_getter achievement counts
// qualifying days against.
const goalGetterWords = 1000

// classifyByAverage maps a trailing average of daily words to a reading
// level. An empty window (average 0) classifies as beginner.
func classifyByAverage(avgWords float64) models.ReadingLevel {
	switch {
	case avgWords >= expertAvgWords:
		return models.LevelExpert
	case avgWords >= advancedAvgWords:
		return models.LevelAdvanced
	case avgWords >= intermediateAvgWords:
		return models.LevelIntermediate
	default:
		return models.LevelBeginner
	}
}

// dailyGoal returns the daily word goal for a level, defaulting to the
// beginner goal for unknown levels.
func dailyGoal(level models.ReadingLevel) int {
	if goal, ok := dailyWordGoals[level]; ok {
		return goal
	}
	return dailyWordGoals[models.LevelBeginner]
}
