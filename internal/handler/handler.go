package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ecofinds/recommendation-service/internal/service"
)

type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// parseLimit reads the limit query parameter, enforcing 1..max. ok is false
// when the parameter is present but invalid.
func parseLimit(r *http.Request, fallback, max int) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(limitStr)
	if err != nil || parsed < 1 || parsed > max {
		return 0, false
	}
	return parsed, true
}
