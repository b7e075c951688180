package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"hekaya/internal/logger"
	"hekaya/internal/repository"
)

// MemberHandler handles member account requests
type MemberHandler struct {
	members *repository.MemberRepository
	log     *logger.Logger
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(members *repository.MemberRepository, log *logger.Logger) *MemberHandler {
	return &MemberHandler{members: members, log: log.With("handler", "members")}
}

// Create registers a new member.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	id, err := h.members.Create(req.Name)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

// Get returns one member.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	member, err := h.members.GetByID(memberID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if member == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
		return
	}
	respondJSON(w, http.StatusOK, member)
}
