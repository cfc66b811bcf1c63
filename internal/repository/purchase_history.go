package repository

import (
	"context"
	"fmt"

	"github.com/ecofinds/recommendation-service/internal/domain"
)

// GetUserPurchaseHistory returns the user's completed/shipped order line
// items, most recent first.
func (r *Repository) GetUserPurchaseHistory(ctx context.Context, userID int64, limit int) ([]domain.PurchaseRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT p.id, p.category, p.price, oi.quantity, o.created_at
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN products p ON oi.product_id = p.id
		WHERE o.user_id = $1 AND o.status IN ('completed', 'shipped')
		ORDER BY o.created_at DESC
		LIMIT $2`,
		userID, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("query purchase history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var records []domain.PurchaseRecord
	for rows.Next() {
		var rec domain.PurchaseRecord
		if err := rows.Scan(&rec.ProductID, &rec.Category, &rec.Price, &rec.Quantity, &rec.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over purchase records: %w", err)
	}
	return records, nil
}

// GetCategoryPurchaseSummary aggregates the user's completed purchases per
// category, most purchased first.
func (r *Repository) GetCategoryPurchaseSummary(ctx context.Context, userID int64, limit int) ([]domain.CategoryPreference, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.category, COUNT(*) AS purchase_count, MAX(o.created_at) AS last_purchase
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN products p ON oi.product_id = p.id
		WHERE o.user_id = $1 AND o.status = 'completed'
		GROUP BY p.category
		ORDER BY purchase_count DESC, last_purchase DESC
		LIMIT $2`,
		userID, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("query category summary for user %d: %w", userID, err)
	}
	defer rows.Close()

	var prefs []domain.CategoryPreference
	for rows.Next() {
		var pref domain.CategoryPreference
		if err := rows.Scan(&pref.Category, &pref.PurchaseCount, &pref.LastPurchase); err != nil {
			return nil, fmt.Errorf("scan category summary: %w", err)
		}
		prefs = append(prefs, pref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over category summary: %w", err)
	}
	return prefs, nil
}
