package repository

import (
	"database/sql"

	"hekaya/internal/database"
	"hekaya/internal/models"
)

// StoryRepository handles story rows and their content metrics
type StoryRepository struct {
	db database.DBTX
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db database.DBTX) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create inserts a story with its computed content metrics.
func (r *StoryRepository) Create(s *models.Story) (int64, error) {
	query := `
		INSERT INTO stories (title, content, category, word_count, reading_level,
		                     reading_time_minutes, complexity_score, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query,
		s.Title, s.Content, s.Category, s.WordCount, string(s.ReadingLevel),
		s.ReadingTimeMinutes, s.ComplexityScore, s.ContentHash)
}

// Update rewrites a story row, including refreshed content metrics.
func (r *StoryRepository) Update(s *models.Story) error {
	query := `
		UPDATE stories
		SET title = ?, content = ?, category = ?, word_count = ?, reading_level = ?,
		    reading_time_minutes = ?, complexity_score = ?, content_hash = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		s.Title, s.Content, s.Category, s.WordCount, string(s.ReadingLevel),
		s.ReadingTimeMinutes, s.ComplexityScore, s.ContentHash, s.ID)
	return err
}

// GetByID retrieves a story, or nil when it doesn't exist.
func (r *StoryRepository) GetByID(id int64) (*models.Story, error) {
	query := `
		SELECT id, title, content, category, word_count, reading_level,
		       reading_time_minutes, complexity_score, content_hash,
		       published_at, created_at, updated_at
		FROM stories
		WHERE id = ?
	`

	s := &models.Story{}
	var level string
	var publishedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&s.ID, &s.Title, &s.Content, &s.Category, &s.WordCount, &level,
		&s.ReadingTimeMinutes, &s.ComplexityScore, &s.ContentHash,
		&publishedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.ReadingLevel = models.ReadingLevel(level)
	if publishedAt.Valid {
		s.PublishedAt = &publishedAt.Time
	}
	return s, nil
}
