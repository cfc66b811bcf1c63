package router

import (
	"net/http"
	"time"

	"github.com/ecofinds/recommendation-service/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/users/{userID}/recommendations", h.GetRecommendations)
	r.Get("/users/{userID}/preferences", h.GetUserPreferences)
	r.Get("/recommendations/trending", h.GetTrendingProducts)
	r.Get("/recommendations/new-user", h.GetNewUserRecommendations)
	r.Get("/recommendations/category/{category}", h.GetCategoryRecommendations)
	r.Get("/recommendations/similar/{productID}", h.GetSimilarProducts)
	r.Get("/recommendations/batch", h.GetBatchRecommendations)
	r.Get("/health", healthCheck)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
