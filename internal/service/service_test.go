package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ecofinds/recommendation-service/internal/cache"
	"github.com/ecofinds/recommendation-service/internal/domain"
	"github.com/ecofinds/recommendation-service/internal/engine"
)

type fakeStore struct {
	mu sync.Mutex

	history    []domain.PurchaseRecord
	historyErr error

	similarUsers []int64
	similarErr   error

	collab    []domain.Candidate
	collabErr error

	trending    []domain.Candidate
	trendingErr error

	categorySummary []domain.CategoryPreference

	userIDs    []int64
	totalUsers int

	historyCalls  int
	similarCalls  int
	collabCalls   int
	trendingCalls int

	gotCategories         []string
	gotMinShared          int
	gotSimilarUsers       []int64
	gotTrendingCategories []string
}

func (f *fakeStore) GetUserPurchaseHistory(_ context.Context, _ int64, _ int) ([]domain.PurchaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	return f.history, f.historyErr
}

func (f *fakeStore) GetSimilarUsers(_ context.Context, _ int64, categories []string, minShared, _ int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.similarCalls++
	f.gotCategories = categories
	f.gotMinShared = minShared
	return f.similarUsers, f.similarErr
}

func (f *fakeStore) GetProductsFromSimilarUsers(_ context.Context, similarUsers []int64, _ int64, _ int) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collabCalls++
	f.gotSimilarUsers = similarUsers
	return f.collab, f.collabErr
}

func (f *fakeStore) GetTrendingProducts(_ context.Context, categories []string, _ int64, _ int) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendingCalls++
	f.gotTrendingCategories = categories
	return f.trending, f.trendingErr
}

func (f *fakeStore) GetProductByID(_ context.Context, productID int64) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (f *fakeStore) GetProductsByCategory(_ context.Context, _ string, _ int) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeStore) GetTopCategories(_ context.Context, _ int) ([]domain.CategorySummary, error) {
	return nil, nil
}

func (f *fakeStore) GetCategoryPurchaseSummary(_ context.Context, _ int64, _ int) ([]domain.CategoryPreference, error) {
	return f.categorySummary, nil
}

func (f *fakeStore) GetUserIDsPaginated(_ context.Context, _, _ int) ([]int64, error) {
	return f.userIDs, nil
}

func (f *fakeStore) CountUsers(_ context.Context) (int, error) {
	return f.totalUsers, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, cache.NewMemoryStore(30*time.Minute, 0), engine.DefaultPolicy(), 1)
}

func TestGetRecommendationsInvalidUser(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.GetRecommendations(context.Background(), 0, 10)
	if !errors.Is(err, domain.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID, got %v", err)
	}

	_, err = svc.GetRecommendations(context.Background(), -3, 10)
	if !errors.Is(err, domain.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestTrendingFallbackForNewUser(t *testing.T) {
	store := &fakeStore{
		trending: []domain.Candidate{
			{Product: domain.Product{ID: 1, Category: "electronics"}, Popularity: 4},
			{Product: domain.Product{ID: 2, Category: "books"}, Popularity: 2},
		},
	}
	svc := newTestService(store)

	result, err := svc.GetRecommendations(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	if len(result.Recommendations) > 8 {
		t.Errorf("expected at most 8 fallback items, got %d", len(result.Recommendations))
	}
	for _, r := range result.Recommendations {
		if r.Source != domain.SourceTrending {
			t.Errorf("expected trending provenance, got %s", r.Source)
		}
		if r.Score != 0.5 {
			t.Errorf("expected flat score 0.5, got %f", r.Score)
		}
	}

	// No preferences -> the fixed default category set
	want := engine.DefaultPolicy().DefaultCategories
	if !reflect.DeepEqual(store.gotTrendingCategories, want) {
		t.Errorf("expected default categories %v, got %v", want, store.gotTrendingCategories)
	}

	// Similar-user and collaborative steps must be skipped entirely
	if store.similarCalls != 0 || store.collabCalls != 0 {
		t.Errorf("fallback path should skip collaborative steps: similar=%d collab=%d",
			store.similarCalls, store.collabCalls)
	}
}

func TestPipelineMergesSources(t *testing.T) {
	store := &fakeStore{
		history: []domain.PurchaseRecord{
			{ProductID: 1, Category: "electronics", Quantity: 2},
			{ProductID: 2, Category: "books", Quantity: 1},
		},
		similarUsers: []int64{2, 3},
		collab: []domain.Candidate{
			{Product: domain.Product{ID: 10, Category: "electronics", Price: 40}, PurchaseCount: 6},
		},
		trending: []domain.Candidate{
			{Product: domain.Product{ID: 10, Category: "electronics"}, Popularity: 9},
			{Product: domain.Product{ID: 11, Category: "books"}, Popularity: 3},
		},
	}
	svc := newTestService(store)

	result, err := svc.GetRecommendations(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if result.CacheHit {
		t.Error("first call should not be a cache hit")
	}

	if store.gotMinShared != 2 {
		t.Errorf("expected similarity threshold 2, got %d", store.gotMinShared)
	}
	if !reflect.DeepEqual(store.gotCategories, []string{"books", "electronics"}) {
		t.Errorf("expected sorted preferred categories, got %v", store.gotCategories)
	}
	if !reflect.DeepEqual(store.gotSimilarUsers, []int64{2, 3}) {
		t.Errorf("expected similar users passed through, got %v", store.gotSimilarUsers)
	}

	recs := result.Recommendations
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}

	seen := make(map[int64]bool)
	for i, r := range recs {
		if seen[r.ID] {
			t.Errorf("duplicate product id %d", r.ID)
		}
		seen[r.ID] = true
		if i > 0 && recs[i-1].Score < r.Score {
			t.Errorf("not sorted: %f < %f", recs[i-1].Score, r.Score)
		}
	}

	// Product 10 came from both sources; collaborative wins
	for _, r := range recs {
		if r.ID == 10 && r.Source != domain.SourceCollaborative {
			t.Errorf("product 10 should be collaborative, got %s", r.Source)
		}
	}
}

func TestCollaborativeSkippedWithoutSimilarUsers(t *testing.T) {
	store := &fakeStore{
		history: []domain.PurchaseRecord{
			{ProductID: 1, Category: "books", Quantity: 1},
		},
		trending: []domain.Candidate{
			{Product: domain.Product{ID: 5, Category: "books"}, Popularity: 1},
		},
	}
	svc := newTestService(store)

	result, err := svc.GetRecommendations(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	if store.collabCalls != 0 {
		t.Errorf("expected no collaborative fetch without similar users, got %d calls", store.collabCalls)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Source != domain.SourceTrending {
		t.Errorf("expected trending-only result, got %v", result.Recommendations)
	}
}

func TestStorageFailuresDegradeToEmpty(t *testing.T) {
	store := &fakeStore{
		history: []domain.PurchaseRecord{
			{ProductID: 1, Category: "books", Quantity: 1},
		},
		similarErr:  errors.New("db down"),
		trendingErr: errors.New("db down"),
	}
	svc := newTestService(store)

	result, err := svc.GetRecommendations(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("pipeline must absorb storage failures, got %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("expected empty result, got %d items", len(result.Recommendations))
	}
}

func TestReaderFailureFallsBackToTrending(t *testing.T) {
	store := &fakeStore{
		historyErr: errors.New("db down"),
		trending: []domain.Candidate{
			{Product: domain.Product{ID: 1, Category: "home"}, Popularity: 2},
		},
	}
	svc := newTestService(store)

	result, err := svc.GetRecommendations(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("reader failure must not propagate, got %v", err)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Source != domain.SourceTrending {
		t.Errorf("expected trending fallback, got %v", result.Recommendations)
	}
}

func TestCacheAvoidsRecomputation(t *testing.T) {
	store := &fakeStore{
		history: []domain.PurchaseRecord{
			{ProductID: 1, Category: "electronics", Quantity: 1},
		},
		trending: []domain.Candidate{
			{Product: domain.Product{ID: 2, Category: "electronics"}, Popularity: 3},
			{Product: domain.Product{ID: 3, Category: "electronics"}, Popularity: 1},
		},
	}
	svc := newTestService(store)

	first, err := svc.GetRecommendations(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.GetRecommendations(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if store.historyCalls != 1 {
		t.Errorf("expected a single pipeline run, got %d history fetches", store.historyCalls)
	}
	if !second.CacheHit {
		t.Error("second call should be a cache hit")
	}
	if !reflect.DeepEqual(first.Recommendations, second.Recommendations) {
		t.Error("cached result should be identical to the computed one")
	}
}

func TestLimitTruncatesOutputOnly(t *testing.T) {
	var trending []domain.Candidate
	for i := 1; i <= 10; i++ {
		trending = append(trending, domain.Candidate{
			Product:    domain.Product{ID: int64(i), Category: "books"},
			Popularity: i,
		})
	}
	store := &fakeStore{
		history: []domain.PurchaseRecord{
			{ProductID: 99, Category: "books", Quantity: 1},
		},
		trending: trending,
	}
	svc := newTestService(store)

	small, err := svc.GetRecommendations(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if len(small.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(small.Recommendations))
	}

	// The cache holds the full ranking, so a larger limit is served from it
	full, err := svc.GetRecommendations(context.Background(), 1, 12)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !full.CacheHit {
		t.Error("expected cache hit")
	}
	if len(full.Recommendations) != 10 {
		t.Errorf("expected 10 recommendations from cache, got %d", len(full.Recommendations))
	}
}

func TestUserPreferencesInterestLevels(t *testing.T) {
	store := &fakeStore{
		categorySummary: []domain.CategoryPreference{
			{Category: "electronics", PurchaseCount: 7},
			{Category: "books", PurchaseCount: 2},
			{Category: "toys", PurchaseCount: 1},
		},
	}
	svc := newTestService(store)

	prefs, err := svc.UserPreferences(context.Background(), 1)
	if err != nil {
		t.Fatalf("UserPreferences: %v", err)
	}

	want := []string{"high", "medium", "low"}
	for i, p := range prefs {
		if p.InterestLevel != want[i] {
			t.Errorf("expected %s for %d purchases, got %s", want[i], p.PurchaseCount, p.InterestLevel)
		}
	}
}

func TestBatchRecommendations(t *testing.T) {
	store := &fakeStore{
		userIDs:    []int64{1, 2, 3},
		totalUsers: 3,
		trending: []domain.Candidate{
			{Product: domain.Product{ID: 1, Category: "home"}, Popularity: 1},
		},
	}
	svc := newTestService(store)

	resp, err := svc.GetBatchRecommendations(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("GetBatchRecommendations: %v", err)
	}

	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	if resp.Summary.SuccessCount != 3 || resp.Summary.FailedCount != 0 {
		t.Errorf("unexpected summary: %+v", resp.Summary)
	}
	if resp.TotalUsers != 3 {
		t.Errorf("expected 3 total users, got %d", resp.TotalUsers)
	}
	for _, r := range resp.Results {
		if r.Status != domain.StatusSuccess {
			t.Errorf("user %d: expected success, got %s", r.UserID, r.Status)
		}
	}
}
