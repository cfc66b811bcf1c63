package domain

import "time"

// PurchaseRecord is one line item from a completed or shipped order,
// scoped to the buying user.
type PurchaseRecord struct {
	ProductID   int64     `json:"product_id"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type CategoryPreference struct {
	Category      string    `json:"category"`
	PurchaseCount int       `json:"purchase_count"`
	LastPurchase  time.Time `json:"last_purchase"`
	InterestLevel string    `json:"interest_level"`
}
