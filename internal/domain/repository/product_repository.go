package repository

import (
	"context"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

// Product sort orders accepted by List.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ProductFilter narrows catalog and admin product listings.
type ProductFilter struct {
	Status   string // empty means any status (admin listings)
	Category string // category name
	Search   string // matches name/description
	Sort     string
	Page     int
	PerPage  int
}

// ProductRepository defines catalog persistence.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetActive(ctx context.Context, id string) (*entity.Product, error)
	// GetActiveByIDs returns the subset of ids that are active products,
	// keyed by id. Missing or archived products are simply absent.
	GetActiveByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]entity.Product, int, error)

	Categories(ctx context.Context) ([]entity.Category, error)
	// EnsureCategory finds a category by name, creating it when absent.
	EnsureCategory(ctx context.Context, name string) (*entity.Category, error)

	CreateWithLog(ctx context.Context, p *entity.Product, log *entity.ActivityLog) error
	UpdateWithLog(ctx context.Context, p *entity.Product, log *entity.ActivityLog) error
	ArchiveWithLog(ctx context.Context, id string, log *entity.ActivityLog) (*entity.Product, error)
	SetImageWithLog(ctx context.Context, id, imageURL string, log *entity.ActivityLog) (*entity.Product, error)
}
