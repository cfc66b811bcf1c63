package seeds

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userCount    = 20
	productCount = 60
	orderCount   = 80
)

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	log.Println("[seed] truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE order_items, orders, products, users RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Println("[seed] inserting users")
	if err := seedUsers(ctx, pool, userCount); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Println("[seed] inserting products")
	if err := seedProducts(ctx, pool, rng, productCount); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	log.Println("[seed] inserting orders")
	if err := seedOrders(ctx, pool, rng, orderCount); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	log.Println("[seed] seeding complete")
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, n int) error {
	rows := []string{}
	args := []any{}

	for i := 0; i < n; i++ {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, fmt.Sprintf("user%d@ecofinds.dev", i+1), fmt.Sprintf("User %d", i+1))
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO users (email, name) VALUES " + strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	categories := []string{"electronics", "clothing", "books", "home", "sports", "toys", "automotive", "beauty"}
	titles := map[string][]string{
		"electronics": {"Refurbished Laptop", "Vintage Camera", "Bluetooth Speaker", "Game Console", "Smart Watch"},
		"clothing":    {"Denim Jacket", "Wool Coat", "Leather Boots", "Summer Dress", "Flannel Shirt"},
		"books":       {"Paperback Bundle", "Cookbook Collection", "Sci-Fi Anthology", "Art History Tome", "Travel Guide Set"},
		"home":        {"Table Lamp", "Oak Bookshelf", "Ceramic Vase", "Area Rug", "Wall Clock"},
		"sports":      {"Road Bike", "Yoga Mat", "Tennis Racket", "Camping Tent", "Dumbbell Set"},
		"toys":        {"Wooden Train Set", "Board Game", "Puzzle Box", "Plush Bear", "Model Kit"},
		"automotive":  {"Roof Rack", "Car Vacuum", "Tool Kit", "Seat Covers", "Jump Starter"},
		"beauty":      {"Hair Dryer", "Makeup Organizer", "Perfume Set", "Skincare Bundle", "Curling Iron"},
	}

	rows := []string{}
	args := []any{}

	for i := 0; i < n; i++ {
		category := categories[i%len(categories)]
		titleList := titles[category]
		title := titleList[i%len(titleList)]

		if i >= len(categories)*len(titleList) {
			title = fmt.Sprintf("%s %d", title, i/len(categories)+1)
		}

		price := priceFor(rng)
		sellerID := rng.Intn(userCount) + 1
		images := []string{fmt.Sprintf("/uploads/products/%d-1.jpg", i+1)}

		// Skew about half the catalog into the trending window.
		var createdAt time.Time
		if rng.Float64() < 0.5 {
			createdAt = time.Now().AddDate(0, 0, -rng.Intn(30))
		} else {
			createdAt = time.Now().AddDate(0, 0, -(30 + rng.Intn(335)))
		}

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args, title, fmt.Sprintf("Pre-owned %s in good condition", strings.ToLower(title)),
			price, category, images, sellerID, "active", createdAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO products (title, description, price, category, images, seller_id, status, created_at) VALUES " +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedOrders(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	statuses := []string{"completed", "shipped", "pending", "cancelled"}
	statusWeights := []float64{0.5, 0.2, 0.2, 0.1}

	for i := 0; i < n; i++ {
		userID := rng.Intn(userCount) + 1
		status := weightedChoice(rng, statuses, statusWeights)
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(180))

		var orderID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO orders (user_id, status, created_at) VALUES ($1, $2, $3) RETURNING id`,
			userID, status, createdAt,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items := rng.Intn(3) + 1
		for j := 0; j < items; j++ {
			// Power-law so a few products dominate purchase counts.
			productID := int64(math.Ceil(math.Pow(rng.Float64(), 1.3) * productCount))
			productID = max(1, min(productID, productCount))
			quantity := rng.Intn(3) + 1

			_, err := pool.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)`,
				orderID, productID, quantity,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
	}

	return nil
}

func priceFor(rng *rand.Rand) float64 {
	raw := math.Pow(rng.Float64(), 2.0)*450 + 5
	return math.Round(raw*100) / 100
}

func weightedChoice(rng *rand.Rand, choices []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
