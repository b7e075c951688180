package service

import (
	"testing"

	"hekaya/internal/models"
)

func TestClassifyByAverage(t *testing.T) {
	tests := []struct {
		avg  float64
		want models.ReadingLevel
	}{
		{0, models.LevelBeginner},
		{999.9, models.LevelBeginner},
		{1000, models.LevelIntermediate},
		{2499, models.LevelIntermediate},
		{2500, models.LevelAdvanced},
		{4999.5, models.LevelAdvanced},
		{5000, models.LevelExpert},
		{50000, models.LevelExpert},
	}

	for _, tt := range tests {
		if got := classifyByAverage(tt.avg); got != tt.want {
			t.Errorf("classifyByAverage(%v) = %q, want %q", tt.avg, got, tt.want)
		}
	}
}

func TestDailyGoal(t *testing.T) {
	tests := []struct {
		level models.ReadingLevel
		want  int
	}{
		{models.LevelBeginner, 500},
		{models.LevelIntermediate, 1000},
		{models.LevelAdvanced, 2000},
		{models.LevelExpert, 3500},
		{models.ReadingLevel("unheard-of"), 500},
		{models.ReadingLevel(""), 500},
	}

	for _, tt := range tests {
		if got := dailyGoal(tt.level); got != tt.want {
			t.Errorf("dailyGoal(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}
