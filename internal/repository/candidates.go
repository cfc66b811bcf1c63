package repository

import (
	"context"
	"fmt"

	"github.com/ecofinds/recommendation-service/internal/domain"
)

// GetProductsFromSimilarUsers returns products the given users purchased,
// excluding anything the requesting user already bought or is selling.
// Candidates are ordered by purchase count, cheaper average price winning
// ties.
func (r *Repository) GetProductsFromSimilarUsers(ctx context.Context, similarUsers []int64, userID int64, limit int) ([]domain.Candidate, error) {
	if len(similarUsers) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.title, p.description, p.price, p.category,
			p.images, p.seller_id, p.created_at,
			COUNT(*) AS purchase_count, AVG(p.price) AS avg_price
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN products p ON oi.product_id = p.id
		WHERE o.user_id = ANY($1)
		AND o.status IN ('completed', 'shipped')
		AND p.seller_id != $2
		AND p.id NOT IN (
			SELECT oi2.product_id
			FROM order_items oi2
			JOIN orders o2 ON oi2.order_id = o2.id
			WHERE o2.user_id = $2
		)
		GROUP BY p.id
		ORDER BY purchase_count DESC, avg_price ASC
		LIMIT $3`,
		similarUsers, userID, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("query collaborative candidates for user %d: %w", userID, err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Category,
			&c.Images, &c.SellerID, &c.CreatedAt, &c.PurchaseCount, &c.AvgPrice)
		if err != nil {
			return nil, fmt.Errorf("scan collaborative candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over collaborative candidates: %w", err)
	}
	return candidates, nil
}

// GetTrendingProducts returns products listed within the last 30 days in the
// given categories, excluding the user's own listings and past purchases.
// Popularity is the number of order items referencing the product.
func (r *Repository) GetTrendingProducts(ctx context.Context, categories []string, userID int64, limit int) ([]domain.Candidate, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.title, p.description, p.price, p.category,
			p.images, p.seller_id, p.created_at,
			COUNT(oi.id) AS popularity_score
		FROM products p
		LEFT JOIN order_items oi ON p.id = oi.product_id
		WHERE p.category = ANY($1)
		AND p.seller_id != $2
		AND p.created_at >= NOW() - INTERVAL '30 days'
		AND p.id NOT IN (
			SELECT oi2.product_id
			FROM order_items oi2
			JOIN orders o2 ON oi2.order_id = o2.id
			WHERE o2.user_id = $2
		)
		GROUP BY p.id
		ORDER BY popularity_score DESC, p.created_at DESC
		LIMIT $3`,
		categories, userID, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("query trending candidates for user %d: %w", userID, err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Category,
			&c.Images, &c.SellerID, &c.CreatedAt, &c.Popularity)
		if err != nil {
			return nil, fmt.Errorf("scan trending candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over trending candidates: %w", err)
	}
	return candidates, nil
}
