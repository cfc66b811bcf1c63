package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecofinds/recommendation-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Get single product
func (r *Repository) GetProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	p := &domain.Product{}

	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, price, category, images, seller_id, created_at
		 FROM products WHERE id = $1`,
		productID,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Images, &p.SellerID, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product id=%d: %w", productID, err)
	}

	return p, nil
}

// Newest active products in a category
func (r *Repository) GetProductsByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, price, category, images, seller_id, created_at
		FROM products
		WHERE category = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT $2`,
		category, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("query products in category %q: %w", category, err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category,
			&p.Images, &p.SellerID, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over products: %w", err)
	}
	return products, nil
}

// Active categories ordered by listing count
func (r *Repository) GetTopCategories(ctx context.Context, limit int) ([]domain.CategorySummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) AS count
		FROM products
		WHERE status = 'active'
		GROUP BY category
		ORDER BY count DESC
		LIMIT $1`,
		limit,
	)

	if err != nil {
		return nil, fmt.Errorf("query top categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.CategorySummary
	for rows.Next() {
		var c domain.CategorySummary
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over categories: %w", err)
	}
	return categories, nil
}
