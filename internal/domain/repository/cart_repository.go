package repository

import "context"

// CartRepository holds the ephemeral session carts: a mapping of product id
// to quantity per cart session. Carts never outlive checkout or their TTL.
type CartRepository interface {
	Get(ctx context.Context, cartID string) (map[string]int, error)
	// Add increments the quantity for a product, creating the line if new.
	Add(ctx context.Context, cartID, productID string, qty int) error
	// Set overwrites the quantity for a product. qty <= 0 removes the line.
	Set(ctx context.Context, cartID, productID string, qty int) error
	Remove(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}
