package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hekaya/internal/analyzer"
	"hekaya/internal/cache"
	"hekaya/internal/logger"
	"hekaya/internal/models"
)

// StoryWriter persists stories with their content metrics
type StoryWriter interface {
	Create(s *models.Story) (int64, error)
	Update(s *models.Story) error
	GetByID(id int64) (*models.Story, error)
}

// StoryService computes content metrics at authoring time and serves the
// live analysis endpoint.
type StoryService struct {
	stories  StoryWriter
	analyzer *analyzer.Analyzer
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewStoryService creates a new story service
func NewStoryService(stories StoryWriter, a *analyzer.Analyzer, c cache.Cache,
	ttl time.Duration, log *logger.Logger) *StoryService {
	return &StoryService{
		stories:  stories,
		analyzer: a,
		cache:    c,
		cacheTTL: ttl,
		log:      log.With("service", "stories"),
	}
}

// CreateStory analyzes the content and stores the story with its metrics.
func (s *StoryService) CreateStory(ctx context.Context, title, content, category string) (*models.Story, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationf("title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, validationf("content is required")
	}

	result := s.analyzer.Analyze(content)
	story := &models.Story{
		Title:              title,
		Content:            content,
		Category:           category,
		WordCount:          result.WordCount,
		ReadingLevel:       result.ReadingLevel,
		ReadingTimeMinutes: result.ReadingTimeMinutes,
		ComplexityScore:    result.ComplexityScore,
		ContentHash:        analyzer.ContentHash(content),
	}

	id, err := s.stories.Create(story)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	story.ID = id
	return story, nil
}

// UpdateStory rewrites a story; metrics are recomputed only when the
// content hash actually changed.
func (s *StoryService) UpdateStory(ctx context.Context, id int64, title, content, category string) (*models.Story, error) {
	story, err := s.stories.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load story: %w", err)
	}
	if story == nil {
		return nil, fmt.Errorf("story %d: %w", id, ErrNotFound)
	}

	if strings.TrimSpace(title) != "" {
		story.Title = title
	}
	if category != "" {
		story.Category = category
	}

	if content != "" {
		hash := analyzer.ContentHash(content)
		if hash != story.ContentHash {
			result := s.analyzer.Analyze(content)
			story.Content = content
			story.WordCount = result.WordCount
			story.ReadingLevel = result.ReadingLevel
			story.ReadingTimeMinutes = result.ReadingTimeMinutes
			story.ComplexityScore = result.ComplexityScore
			story.ContentHash = hash
		}
	}

	if err := s.stories.Update(story); err != nil {
		return nil, fmt.Errorf("failed to update story: %w", err)
	}
	return story, nil
}

// GetStory loads a story by ID.
func (s *StoryService) GetStory(id int64) (*models.Story, error) {
	story, err := s.stories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, fmt.Errorf("story %d: %w", id, ErrNotFound)
	}
	return story, nil
}

// AnalyzeContent runs the analyzer for live editor feedback. Results are
// memoized by content hash since analysis is a pure function of the text.
func (s *StoryService) AnalyzeContent(ctx context.Context, text string) (analyzer.Result, error) {
	key := "analyze:" + analyzer.ContentHash(text)
	var cached analyzer.Result
	if ok, _ := cache.GetJSON(ctx, s.cache, key, &cached); ok {
		return cached, nil
	}

	result := s.analyzer.Analyze(text)
	if err := cache.SetJSON(ctx, s.cache, key, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to memoize analysis", "error", err)
	}
	return result, nil
}
