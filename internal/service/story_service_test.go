package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hekaya/internal/analyzer"
	"hekaya/internal/cache"
	"hekaya/internal/logger"
	"hekaya/internal/models"
)

type fakeStoryWriter struct {
	nextID  int64
	stories map[int64]*models.Story
	updates int
}

func newFakeStoryWriter() *fakeStoryWriter {
	return &fakeStoryWriter{stories: make(map[int64]*models.Story)}
}

func (f *fakeStoryWriter) Create(s *models.Story) (int64, error) {
	f.nextID++
	copied := *s
	copied.ID = f.nextID
	f.stories[f.nextID] = &copied
	return f.nextID, nil
}

func (f *fakeStoryWriter) Update(s *models.Story) error {
	f.updates++
	copied := *s
	f.stories[s.ID] = &copied
	return nil
}

func (f *fakeStoryWriter) GetByID(id int64) (*models.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func newStoryFixture() (*StoryService, *fakeStoryWriter) {
	writer := newFakeStoryWriter()
	svc := NewStoryService(writer, analyzer.New(), cache.NewMemory(), time.Minute, logger.NewNop())
	return svc, writer
}

func TestCreateStoryComputesMetrics(t *testing.T) {
	svc, _ := newStoryFixture()

	content := strings.Repeat("A quiet morning by the sea. ", 50)
	story, err := svc.CreateStory(context.Background(), "The Harbor", content, "slice-of-life")
	require.NoError(t, err)

	assert.NotZero(t, story.ID)
	assert.Equal(t, 300, story.WordCount)
	assert.NotEmpty(t, story.ContentHash)
	assert.GreaterOrEqual(t, story.ReadingTimeMinutes, 1)
	assert.NotEmpty(t, string(story.ReadingLevel))
}

func TestCreateStoryValidation(t *testing.T) {
	svc, _ := newStoryFixture()

	_, err := svc.CreateStory(context.Background(), "  ", "content", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateStory(context.Background(), "Title", "   ", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStoryRecomputesOnlyOnContentChange(t *testing.T) {
	svc, writer := newStoryFixture()

	story, err := svc.CreateStory(context.Background(), "Title", "one two three four five", "cat")
	require.NoError(t, err)
	originalHash := story.ContentHash
	require.Equal(t, 5, story.WordCount)

	// Same content: metrics and hash survive a title edit
	updated, err := svc.UpdateStory(context.Background(), story.ID, "New Title", "one two three four five", "cat")
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, originalHash, updated.ContentHash)
	assert.Equal(t, 5, updated.WordCount)

	// Changed content: everything recomputes
	updated, err = svc.UpdateStory(context.Background(), story.ID, "", "a much longer body of freshly rewritten text here", "")
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, updated.ContentHash)
	assert.Equal(t, 9, updated.WordCount)
	assert.Equal(t, "New Title", updated.Title, "empty title leaves the old one")
	assert.Equal(t, 2, writer.updates)
}

func TestUpdateStoryNotFound(t *testing.T) {
	svc, _ := newStoryFixture()

	_, err := svc.UpdateStory(context.Background(), 404, "Title", "content", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeContentMatchesAnalyzer(t *testing.T) {
	svc, _ := newStoryFixture()
	text := "قصة قصيرة عن البحر. A short story about the sea."

	got, err := svc.AnalyzeContent(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, analyzer.New().Analyze(text), got)

	// Second call is served from the memo and must agree
	again, err := svc.AnalyzeContent(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
