package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/ecofinds/recommendation-service/internal/cache"
	"github.com/ecofinds/recommendation-service/internal/domain"
	"github.com/ecofinds/recommendation-service/internal/engine"
	"github.com/ecofinds/recommendation-service/internal/metrics"
)

const (
	defaultLimit       = 12
	maxLimit           = 50
	historyLimit       = 50
	similarUserLimit   = 10
	collaborativeLimit = 20
	trendingLimit      = 15
	preferenceLimit    = 10
	topCategoryLimit   = 5
	batchConcurrency   = 10
	batchRecLimit      = 12
)

// Store is the slice of the order/product store the service reads from.
type Store interface {
	GetUserPurchaseHistory(ctx context.Context, userID int64, limit int) ([]domain.PurchaseRecord, error)
	GetSimilarUsers(ctx context.Context, userID int64, categories []string, minShared, limit int) ([]int64, error)
	GetProductsFromSimilarUsers(ctx context.Context, similarUsers []int64, userID int64, limit int) ([]domain.Candidate, error)
	GetTrendingProducts(ctx context.Context, categories []string, userID int64, limit int) ([]domain.Candidate, error)
	GetProductByID(ctx context.Context, productID int64) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error)
	GetTopCategories(ctx context.Context, limit int) ([]domain.CategorySummary, error)
	GetCategoryPurchaseSummary(ctx context.Context, userID int64, limit int) ([]domain.CategoryPreference, error)
	GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error)
	CountUsers(ctx context.Context) (int, error)
}

type Service struct {
	store  Store
	cache  cache.Store
	policy engine.Policy

	// Guards rng; *rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewService(store Store, cache cache.Store, policy engine.Policy, shuffleSeed int64) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		policy: policy,
		rng:    rand.New(rand.NewSource(shuffleSeed)),
	}
}

// GetRecommendations returns the cached ranked list for the user, computing
// and storing it first on a miss. limit only truncates the returned slice;
// the cached list is always the full ranking.
func (s *Service) GetRecommendations(ctx context.Context, userID int64, limit int) (*domain.RecommendationResult, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	// Check cache
	cached, found, err := s.cache.Get(ctx, userID)
	if err != nil {
		log.Printf("[service] cache get error for user %d: %v", userID, err)
	}

	if found {
		metrics.CacheHits.Inc()
		return &domain.RecommendationResult{
			Recommendations: truncate(cached, limit),
			CacheHit:        true,
		}, nil
	}
	metrics.CacheMisses.Inc()

	// Cache miss -> run the full pipeline
	recs := s.generateRecommendations(ctx, userID)

	if cacheErr := s.cache.Set(ctx, userID, recs); cacheErr != nil {
		log.Printf("[service] cache set error for user %d: %v", userID, cacheErr)
	}

	return &domain.RecommendationResult{
		Recommendations: truncate(recs, limit),
		CacheHit:        false,
	}, nil
}

// generateRecommendations runs history -> preferences -> similar users ->
// candidates -> ranking. Every storage failure degrades to an empty step
// result; the worst case is an empty list, never an error.
func (s *Service) generateRecommendations(ctx context.Context, userID int64) []domain.ScoredRecommendation {
	history, err := s.store.GetUserPurchaseHistory(ctx, userID, historyLimit)
	if err != nil {
		log.Printf("[service] purchase history error for user %d: %v", userID, err)
		history = nil
	}

	// No purchase history: trending-only fallback at a flat score.
	if len(history) == 0 {
		return s.policy.ColdStart(s.fetchTrending(ctx, nil, userID))
	}

	prefs := s.policy.CategoryPreferences(history)
	categories := s.policy.PreferredCategories(prefs)

	similarUsers, err := s.store.GetSimilarUsers(ctx, userID, categories, s.policy.SimilarityThreshold, similarUserLimit)
	if err != nil {
		log.Printf("[service] similar users error for user %d: %v", userID, err)
		similarUsers = nil
	}

	var collaborative []domain.Candidate
	if len(similarUsers) > 0 {
		collaborative, err = s.store.GetProductsFromSimilarUsers(ctx, similarUsers, userID, collaborativeLimit)
		if err != nil {
			log.Printf("[service] collaborative candidates error for user %d: %v", userID, err)
			collaborative = nil
		}
	}

	trending := s.fetchTrending(ctx, categories, userID)

	return s.policy.ScoreRecommendations(collaborative, trending, prefs)
}

// fetchTrending substitutes the default category set when the caller has no
// preferences, and swallows storage failures.
func (s *Service) fetchTrending(ctx context.Context, categories []string, userID int64) []domain.Candidate {
	if len(categories) == 0 {
		categories = s.policy.DefaultCategories
	}
	trending, err := s.store.GetTrendingProducts(ctx, categories, userID, trendingLimit)
	if err != nil {
		log.Printf("[service] trending candidates error for user %d: %v", userID, err)
		return nil
	}
	return trending
}

// TrendingProducts is the public trending feed: no requesting user, so only
// the recency window applies.
func (s *Service) TrendingProducts(ctx context.Context, limit int) ([]domain.Candidate, error) {
	trending, err := s.store.GetTrendingProducts(ctx, s.policy.DefaultCategories, 0, trendingLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch trending products: %w", err)
	}
	return truncateCandidates(trending, limit), nil
}

// CategoryRecommendations returns the newest active products in a category,
// optionally excluding one product id.
func (s *Service) CategoryRecommendations(ctx context.Context, category string, excludeProductID int64, limit int) ([]domain.Product, error) {
	products, err := s.store.GetProductsByCategory(ctx, category, limit+1)
	if err != nil {
		return nil, fmt.Errorf("fetch products in category %q: %w", category, err)
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if excludeProductID != 0 && p.ID == excludeProductID {
			continue
		}
		filtered = append(filtered, p)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// SimilarProducts returns same-category products for a base product.
func (s *Service) SimilarProducts(ctx context.Context, productID int64, limit int) (*domain.Product, []domain.Product, error) {
	base, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	similar, err := s.CategoryRecommendations(ctx, base.Category, base.ID, limit)
	if err != nil {
		return nil, nil, err
	}
	return base, similar, nil
}

// NewUserRecommendations samples products across the most listed categories
// and shuffles them with the seeded source.
func (s *Service) NewUserRecommendations(ctx context.Context, limit int) ([]domain.Product, error) {
	categories, err := s.store.GetTopCategories(ctx, topCategoryLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch top categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, nil
	}

	perCategory := limit / len(categories)
	if perCategory < 1 {
		perCategory = 1
	}

	var picks []domain.Product
	for _, c := range categories {
		products, err := s.store.GetProductsByCategory(ctx, c.Category, perCategory)
		if err != nil {
			log.Printf("[service] category products error for %q: %v", c.Category, err)
			continue
		}
		picks = append(picks, products...)
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})
	s.rngMu.Unlock()

	if len(picks) > limit {
		picks = picks[:limit]
	}
	return picks, nil
}

// UserPreferences summarizes the user's per-category purchases with an
// interest level.
func (s *Service) UserPreferences(ctx context.Context, userID int64) ([]domain.CategoryPreference, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidUserID
	}

	prefs, err := s.store.GetCategoryPurchaseSummary(ctx, userID, preferenceLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch category summary: %w", err)
	}

	for i := range prefs {
		prefs[i].InterestLevel = interestLevel(prefs[i].PurchaseCount)
	}
	return prefs, nil
}

func interestLevel(purchaseCount int) string {
	switch {
	case purchaseCount >= 5:
		return "high"
	case purchaseCount >= 2:
		return "medium"
	default:
		return "low"
	}
}

func (s *Service) GetBatchRecommendations(ctx context.Context, page, limit int) (*domain.BatchResponse, error) {
	start := time.Now()

	// Fetch paginated user IDs
	userIDs, err := s.store.GetUserIDsPaginated(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch user ids: %w", err)
	}

	// Fetch total user
	totalUsers, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count user: %w", err)
	}

	// Process users concurrently with bounded worker pool
	results := make([]domain.BatchUserResult, len(userIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, batchConcurrency) // semaphore

	for i, userID := range userIDs {
		wg.Add(1)
		go func(idx int, uid int64) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = s.processUserForBatch(ctx, uid)
		}(i, userID)
	}
	wg.Wait()

	// summary
	successCount := 0
	failedCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}

	elapsed := time.Since(start).Milliseconds()

	return &domain.BatchResponse{
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      failedCount,
			ProcessingTimeMs: elapsed,
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Generates recommendations for a single user, capturing errors.
func (s *Service) processUserForBatch(ctx context.Context, userID int64) domain.BatchUserResult {
	result, err := s.GetRecommendations(ctx, userID, batchRecLimit)
	if err != nil {
		log.Printf("[service] batch: failed for user %d: %v", userID, err)
		code, msg := categorizeError(err)
		return domain.BatchUserResult{
			UserID:  userID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}

	return domain.BatchUserResult{
		UserID:          userID,
		Recommendations: result.Recommendations,
		Status:          domain.StatusSuccess,
	}
}

// Handle response error
func categorizeError(err error) (string, string) {
	if errors.Is(err, domain.ErrInvalidUserID) {
		return "invalid_user", "user id must be a positive integer"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "request_cancelled", "request was cancelled before completion"
	}
	return "internal_error", "an unexpected error occurred"
}

func truncate(recs []domain.ScoredRecommendation, limit int) []domain.ScoredRecommendation {
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

func truncateCandidates(candidates []domain.Candidate, limit int) []domain.Candidate {
	if limit > 0 && len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}
