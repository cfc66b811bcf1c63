package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecofinds/recommendation-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GET /recommendations/trending
func (h *Handler) GetTrendingProducts(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, 10, 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	trending, err := h.service.TrendingProducts(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	items := make([]TrendingItem, 0, len(trending))
	for _, c := range trending {
		items = append(items, TrendingItem{Product: c.Product, PopularityScore: c.Popularity})
	}

	writeJSON(w, http.StatusOK, TrendingResponse{
		Recommendations: items,
		Algorithm:       "trending_recent",
	})
}

// GET /recommendations/category/{category}
func (h *Handler) GetCategoryRecommendations(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid category parameter")
		return
	}

	limit, ok := parseLimit(r, 10, 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	var excludeID int64
	if excludeStr := r.URL.Query().Get("exclude_product_id"); excludeStr != "" {
		parsed, err := strconv.ParseInt(excludeStr, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid exclude_product_id parameter")
			return
		}
		excludeID = parsed
	}

	products, err := h.service.CategoryRecommendations(r.Context(), category, excludeID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, ProductListResponse{
		Recommendations: products,
		Algorithm:       "category_based",
		Category:        category,
	})
}

// GET /recommendations/similar/{productID}
func (h *Handler) GetSimilarProducts(w http.ResponseWriter, r *http.Request) {
	productIDStr := chi.URLParam(r, "productID")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid product_id parameter")
		return
	}

	limit, ok := parseLimit(r, 10, 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	base, similar, err := h.service.SimilarProducts(r.Context(), productID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product_not_found", "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, SimilarResponse{
		Recommendations: similar,
		Algorithm:       "similar_category",
		BaseProduct: BaseProduct{
			ID:       base.ID,
			Title:    base.Title,
			Category: base.Category,
		},
	})
}

// GET /recommendations/new-user
func (h *Handler) GetNewUserRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, 10, 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	products, err := h.service.NewUserRecommendations(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, ProductListResponse{
		Recommendations: products,
		Algorithm:       "new_user_popular_categories",
	})
}
