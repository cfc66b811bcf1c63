package repository

import (
	"context"
	"fmt"
)

// GetSimilarUsers finds other users who bought in the given categories,
// ranked by how many qualifying order items they have. minShared is the
// minimum number of matching items required.
func (r *Repository) GetSimilarUsers(ctx context.Context, userID int64, categories []string, minShared, limit int) ([]int64, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT o.user_id, COUNT(*) AS similarity_score
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN products p ON oi.product_id = p.id
		WHERE o.user_id != $1
		AND p.category = ANY($2)
		AND o.status IN ('completed', 'shipped')
		GROUP BY o.user_id
		HAVING COUNT(*) >= $3
		ORDER BY similarity_score DESC, o.user_id
		LIMIT $4`,
		userID, categories, minShared, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("query similar users for user %d: %w", userID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		var score int
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("scan similar user: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over similar users: %w", err)
	}
	return ids, nil
}
