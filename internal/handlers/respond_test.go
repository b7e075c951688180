package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hekaya/internal/logger"
	"hekaya/internal/service"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	log := logger.NewNop()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("bad input: %w", service.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("member 7: %w", service.ErrNotFound), http.StatusNotFound},
		{"access denied", fmt.Errorf("wrong owner: %w", service.ErrAccessDenied), http.StatusForbidden},
		{"already claimed", fmt.Errorf("claim 3: %w", service.ErrAlreadyClaimed), http.StatusConflict},
		{"anything else", errors.New("db exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, log, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing message")
			}
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, logger.NewNop(), errors.New("pq: connection refused on 10.0.0.3"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal error leaked to the client: %q", body["error"])
	}
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusCreated, map[string]int{"id": 7})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["id"] != 7 {
		t.Errorf("body = %v", body)
	}
}
