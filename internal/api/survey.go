package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yellowbank/loanchat/internal/store"
)

// SurveyHandler serves the persisted satisfaction surveys.
type SurveyHandler struct {
	repo store.Repository
}

// NewSurveyHandler creates a new survey handler.
func NewSurveyHandler(repo store.Repository) *SurveyHandler {
	return &SurveyHandler{repo: repo}
}

// RegisterRoutes registers survey routes.
func (h *SurveyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/surveys/recent", h.Recent)
}

// Recent returns the most recently completed surveys, newest first.
func (h *SurveyHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			Error(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}

	surveys, err := h.repo.RecentSurveys(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list surveys", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list surveys")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}
