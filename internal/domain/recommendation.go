package domain

const (
	SourceCollaborative = "collaborative"
	SourceTrending      = "trending"
)

// Candidate is a product under consideration before final scoring. The
// popularity signals depend on where it came from: collaborative candidates
// carry PurchaseCount/AvgPrice, trending candidates carry Popularity.
type Candidate struct {
	Product
	PurchaseCount int
	AvgPrice      float64
	Popularity    int
}

type ScoredRecommendation struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	SellerID    int64    `json:"seller_id"`
	Score       float64  `json:"recommendation_score"`
	Source      string   `json:"recommendation_type"`
}

type RecommendationMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type RecommendationResult struct {
	Recommendations []ScoredRecommendation
	CacheHit        bool
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type BatchUserResult struct {
	UserID          int64                  `json:"user_id"`
	Recommendations []ScoredRecommendation `json:"recommendations,omitempty"`
	Status          string                 `json:"status"`
	Error           string                 `json:"error,omitempty"`
	Message         string                 `json:"message,omitempty"`
}

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalUsers int               `json:"total_users"`
	Results    []BatchUserResult `json:"results"`
	Summary    BatchSummary      `json:"summary"`
	Metadata   BatchMeta         `json:"metadata"`
}
