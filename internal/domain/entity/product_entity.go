package entity

import "time"

// Product visibility states. Archiving is the soft delete: the row stays so
// past order items keep a valid reference.
const (
	ProductActive   = "active"
	ProductArchived = "archived"
)

// Product listed in the store. Prices are integer cents to keep arithmetic
// exact; StockQty is the sellable quantity.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	StockQty    int
	CategoryID  string
	Category    string // category name, joined in for display
	Status      string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products for catalog filtering.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
