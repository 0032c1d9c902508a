package entity

// Stock status labels shown on cart lines.
const (
	StockIn  = "in_stock"
	StockLow = "low_stock"
	StockOut = "out_of_stock"
)

// CartLine is one product in a cart summary with a snapshot of the current
// catalog data. Unlike order items, nothing here is frozen: the summary is
// rebuilt from live prices on every read.
type CartLine struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	StockAvailable int    `json:"stock_available"`
	StockStatus    string `json:"stock_status"`
	ImageURL       string `json:"image_url,omitempty"`
}

// CartSummary is the structured view of a cart.
type CartSummary struct {
	Items      []CartLine `json:"items"`
	TotalCents int64      `json:"total_cents"`
	ItemCount  int        `json:"item_count"`
}
