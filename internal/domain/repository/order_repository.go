package repository

import (
	"context"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID  string // empty means all users (admin listings)
	Status  string
	Page    int
	PerPage int
}

// OrderRepository defines order persistence. Stock bookkeeping lives here so
// every stock movement happens inside the same transaction as the order row
// it belongs to.
type OrderRepository interface {
	// PlaceOrder converts requested quantities into a paid order in a single
	// transaction: product rows are locked, stock is revalidated and
	// deducted, and line prices are frozen from the current catalog values.
	// Returns ErrInsufficientStock or ErrProductUnavailable without side
	// effects when any line cannot be satisfied.
	PlaceOrder(ctx context.Context, userID string, requested map[string]int) (*entity.Order, error)

	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]entity.Order, int, error)

	// ChangeStatusWithLog enforces the order status machine, restores stock
	// when the new status is canceled, and appends the activity entry in the
	// same transaction.
	ChangeStatusWithLog(ctx context.Context, id, to string, log *entity.ActivityLog) (*entity.Order, error)

	// CancelByOwner cancels a pending order on behalf of its owner and
	// restores stock. Not an admin action, so nothing is logged.
	CancelByOwner(ctx context.Context, id, userID string) (*entity.Order, error)
}
