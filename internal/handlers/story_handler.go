package handlers

import (
	"encoding/json"
	"net/http"

	"hekaya/internal/logger"
	"hekaya/internal/service"
)

// StoryHandler handles story authoring and the live content analysis
// endpoint
type StoryHandler struct {
	stories *service.StoryService
	log     *logger.Logger
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(stories *service.StoryService, log *logger.Logger) *StoryHandler {
	return &StoryHandler{stories: stories, log: log.With("handler", "stories")}
}

type storyRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Create publishes a new story; the content metrics are computed on save.
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	story, err := h.stories.CreateStory(r.Context(), req.Title, req.Content, req.Category)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, story)
}

// Update edits a story. Metrics are only recomputed when the content
// changed.
func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	storyID, err := pathID(r, "storyID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid story id"})
		return
	}

	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	story, err := h.stories.UpdateStory(r.Context(), storyID, req.Title, req.Content, req.Category)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, story)
}

// Get returns one story with its content metrics.
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	storyID, err := pathID(r, "storyID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid story id"})
		return
	}

	story, err := h.stories.GetStory(storyID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, story)
}

// Analyze runs the content analyzer over arbitrary text for editor
// feedback, without persisting anything.
func (h *StoryHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.stories.AnalyzeContent(r.Context(), req.Content)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
