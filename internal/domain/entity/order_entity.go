package entity

import "time"

// Order status values. Shipped and canceled are terminal.
const (
	OrderPending  = "pending"
	OrderPaid     = "paid"
	OrderShipped  = "shipped"
	OrderCanceled = "canceled"
)

// Order is a customer's purchase. Totals and item prices are snapshots of
// the values at checkout time and never track later product edits.
type Order struct {
	ID         string
	UserID     string
	Status     string
	TotalCents int64
	PlacedAt   time.Time
	Items      []OrderItem
}

// OrderItem is one purchased line. ProductName and SKU are copied from the
// product at purchase time so the order stays readable after catalog edits.
type OrderItem struct {
	ID             string
	OrderID        string
	ProductID      string
	ProductName    string
	SKU            string
	UnitPriceCents int64
	Qty            int
	SubtotalCents  int64
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderCanceled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// pending -> paid -> shipped, pending|paid -> canceled. A shipped order can
// never be canceled.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case OrderPending:
		return to == OrderPaid || to == OrderCanceled
	case OrderPaid:
		return to == OrderShipped || to == OrderCanceled
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func Terminal(s string) bool {
	return s == OrderShipped || s == OrderCanceled
}
