package models

import "time"

// Story represents a published daily story with the content metrics computed
// at authoring time.
type Story struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Category string `json:"category"`

	// Content metrics, derived once from Content and recomputed only when
	// the content hash changes.
	WordCount          int          `json:"word_count"`
	ReadingLevel       ReadingLevel `json:"reading_level"`
	ReadingTimeMinutes int          `json:"reading_time_minutes"`
	ComplexityScore    float64      `json:"complexity_score"`
	ContentHash        string       `json:"-"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
