package cache

import (
	"context"

	"github.com/ecofinds/recommendation-service/internal/domain"
)

// Store memoizes computed recommendation lists per user. Entries go stale
// after a fixed TTL; stale entries are recomputed and overwritten on the next
// access, never invalidated explicitly.
type Store interface {
	Get(ctx context.Context, userID int64) ([]domain.ScoredRecommendation, bool, error)
	Set(ctx context.Context, userID int64, recs []domain.ScoredRecommendation) error
}
