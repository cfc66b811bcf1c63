package handler

import "github.com/ecofinds/recommendation-service/internal/domain"

type RecommendationResponse struct {
	UserID          int64                         `json:"user_id"`
	Recommendations []domain.ScoredRecommendation `json:"recommendations"`
	Algorithm       string                        `json:"algorithm"`
	Metadata        domain.RecommendationMeta     `json:"metadata"`
}

type TrendingItem struct {
	domain.Product
	PopularityScore int `json:"popularity_score"`
}

type TrendingResponse struct {
	Recommendations []TrendingItem `json:"recommendations"`
	Algorithm       string         `json:"algorithm"`
}

type ProductListResponse struct {
	Recommendations []domain.Product `json:"recommendations"`
	Algorithm       string           `json:"algorithm"`
	Category        string           `json:"category,omitempty"`
}

type BaseProduct struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type SimilarResponse struct {
	Recommendations []domain.Product `json:"recommendations"`
	Algorithm       string           `json:"algorithm"`
	BaseProduct     BaseProduct      `json:"base_product"`
}

type PreferencesResponse struct {
	UserID      int64                       `json:"user_id"`
	Preferences []domain.CategoryPreference `json:"preferences"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
