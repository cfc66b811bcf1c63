package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ecofinds/recommendation-service/internal/domain"
	"github.com/ecofinds/recommendation-service/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// GET /users/{userID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RecommendRequests.Inc()

	// Parse and validate user_id
	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	limit, ok := parseLimit(r, 12, 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	result, err := h.service.GetRecommendations(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidUserID) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	metrics.RecommendLatency.Observe(time.Since(start).Seconds())

	resp := RecommendationResponse{
		UserID:          userID,
		Recommendations: result.Recommendations,
		Algorithm:       "collaborative_filtering_with_trending",
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Recommendations),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /users/{userID}/preferences
func (h *Handler) GetUserPreferences(w http.ResponseWriter, r *http.Request) {
	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	prefs, err := h.service.UserPreferences(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, PreferencesResponse{
		UserID:      userID,
		Preferences: prefs,
	})
}
