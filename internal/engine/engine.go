package engine

import (
	"math"
	"sort"

	"github.com/ecofinds/recommendation-service/internal/domain"
)

// Policy holds the tunable ranking constants. The similarity threshold and
// blend weights are policy, not invariants; DefaultPolicy carries the values
// the marketplace has always shipped with.
type Policy struct {
	CategoryWeights   map[string]float64
	DefaultCategories []string

	// Minimum matching order items for a user to count as similar.
	SimilarityThreshold int

	TopN           int
	ColdStartCount int
	ColdStartScore float64

	CollabAffinityWeight   float64
	CollabPopularityWeight float64
	CollabPriceWeight      float64
	CollabDefaultAffinity  float64
	CollabCountPivot       float64
	AffordablePrice        float64
	PremiumPriceScore      float64

	TrendAffinityWeight   float64
	TrendPopularityWeight float64
	TrendRecencyWeight    float64
	TrendDefaultAffinity  float64
	TrendCountPivot       float64
	RecencyBonus          float64
}

func DefaultPolicy() Policy {
	return Policy{
		CategoryWeights: map[string]float64{
			"electronics": 1.2,
			"clothing":    1.1,
			"books":       1.0,
			"home":        1.1,
			"sports":      1.0,
			"toys":        0.9,
			"automotive":  1.0,
			"beauty":      1.1,
		},
		DefaultCategories: []string{"electronics", "clothing", "books", "home"},

		SimilarityThreshold: 2,

		TopN:           12,
		ColdStartCount: 8,
		ColdStartScore: 0.5,

		CollabAffinityWeight:   0.4,
		CollabPopularityWeight: 0.4,
		CollabPriceWeight:      0.2,
		CollabDefaultAffinity:  0.5,
		CollabCountPivot:       10,
		AffordablePrice:        100,
		PremiumPriceScore:      0.8,

		TrendAffinityWeight:   0.3,
		TrendPopularityWeight: 0.3,
		TrendRecencyWeight:    0.4,
		TrendDefaultAffinity:  0.3,
		TrendCountPivot:       5,
		RecencyBonus:          0.8,
	}
}

// CategoryPreferences converts purchase history into per-category affinity
// scores. Contributions are quantity times category weight, normalized by the
// largest category total so the top category always scores 1.0.
func (p Policy) CategoryPreferences(history []domain.PurchaseRecord) map[string]float64 {
	scores := make(map[string]float64)
	for _, rec := range history {
		category := rec.Category
		if category == "" {
			category = "other"
		}
		quantity := rec.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		scores[category] += float64(quantity) * p.categoryWeight(category)
	}

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore <= 0 {
		return map[string]float64{}
	}

	for category := range scores {
		scores[category] /= maxScore
	}
	return scores
}

// PreferredCategories returns the affinity map's categories in a stable order.
func (p Policy) PreferredCategories(prefs map[string]float64) []string {
	categories := make([]string, 0, len(prefs))
	for category := range prefs {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func (p Policy) categoryWeight(category string) float64 {
	if w, ok := p.CategoryWeights[category]; ok {
		return w
	}
	return 1.0
}

// ScoreRecommendations merges collaborative and trending candidates into one
// deduplicated ranked list. Collaborative candidates are scored first; a
// trending candidate is only added when its product id has not been seen.
func (p Policy) ScoreRecommendations(collaborative, trending []domain.Candidate, prefs map[string]float64) []domain.ScoredRecommendation {
	seen := make(map[int64]struct{}, len(collaborative)+len(trending))
	recs := make([]domain.ScoredRecommendation, 0, len(collaborative)+len(trending))

	for _, c := range collaborative {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		recs = append(recs, newScored(c, p.scoreCollaborative(c, prefs), domain.SourceCollaborative))
	}

	for _, c := range trending {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		recs = append(recs, newScored(c, p.scoreTrending(c, prefs), domain.SourceTrending))
	}

	// Stable so equal scores keep insertion order: collaborative first.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > p.TopN {
		recs = recs[:p.TopN]
	}
	return recs
}

// ColdStart builds the no-history fallback: the first few trending candidates
// at a flat score.
func (p Policy) ColdStart(trending []domain.Candidate) []domain.ScoredRecommendation {
	n := len(trending)
	if n > p.ColdStartCount {
		n = p.ColdStartCount
	}
	recs := make([]domain.ScoredRecommendation, 0, n)
	for _, c := range trending[:n] {
		recs = append(recs, newScored(c, p.ColdStartScore, domain.SourceTrending))
	}
	return recs
}

func (p Policy) scoreCollaborative(c domain.Candidate, prefs map[string]float64) float64 {
	affinity, ok := prefs[c.Category]
	if !ok {
		affinity = p.CollabDefaultAffinity
	}
	popularity := math.Min(float64(c.PurchaseCount)/p.CollabCountPivot, 1.0)
	priceScore := p.PremiumPriceScore
	if c.Price < p.AffordablePrice {
		priceScore = 1.0
	}
	score := affinity*p.CollabAffinityWeight +
		popularity*p.CollabPopularityWeight +
		priceScore*p.CollabPriceWeight
	return round3(score)
}

func (p Policy) scoreTrending(c domain.Candidate, prefs map[string]float64) float64 {
	affinity, ok := prefs[c.Category]
	if !ok {
		affinity = p.TrendDefaultAffinity
	}
	popularity := math.Min(float64(c.Popularity)/p.TrendCountPivot, 1.0)
	score := affinity*p.TrendAffinityWeight +
		popularity*p.TrendPopularityWeight +
		p.RecencyBonus*p.TrendRecencyWeight
	return round3(score)
}

func newScored(c domain.Candidate, score float64, source string) domain.ScoredRecommendation {
	return domain.ScoredRecommendation{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		Category:    c.Category,
		Images:      c.Images,
		SellerID:    c.SellerID,
		Score:       score,
		Source:      source,
	}
}

// 3 decimal places
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
