package application

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
)

var (
	ErrInvalidQty         = errors.New("quantity must be positive")
	ErrProductNotSellable = errors.New("product is not available")
)

// CartService manages the ephemeral session carts. Only product id and
// quantity are stored; names, prices and stock are looked up fresh on every
// read so the summary always reflects the current catalog.
type CartService struct {
	Carts    repo.CartRepository
	Products repo.ProductRepository
	Logger   *logrus.Logger
	LowStock int
}

func NewCartService(carts repo.CartRepository, products repo.ProductRepository, logger *logrus.Logger, lowStock int) *CartService {
	if lowStock <= 0 {
		lowStock = 5
	}
	return &CartService{Carts: carts, Products: products, Logger: logger, LowStock: lowStock}
}

// Summary builds the structured cart view. Lines whose product has been
// archived or deleted since they were added are silently dropped, so the
// total is always the sum over sellable lines only.
func (s *CartService) Summary(ctx context.Context, cartID string) (*entity.CartSummary, error) {
	qtys, err := s.Carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	sum := &entity.CartSummary{Items: []entity.CartLine{}}
	if len(qtys) == 0 {
		return sum, nil
	}

	ids := make([]string, 0, len(qtys))
	for id := range qtys {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byID, err := s.Products.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue // archived or deleted since added
		}
		qty := qtys[id]
		line := entity.CartLine{
			ProductID:      p.ID,
			Name:           p.Name,
			SKU:            p.SKU,
			Qty:            qty,
			UnitPriceCents: p.PriceCents,
			SubtotalCents:  p.PriceCents * int64(qty),
			StockAvailable: p.StockQty,
			StockStatus:    s.stockStatus(p.StockQty, qty),
			ImageURL:       p.ImageURL,
		}
		sum.Items = append(sum.Items, line)
		sum.TotalCents += line.SubtotalCents
	}
	// item_count is the number of distinct lines, not units.
	sum.ItemCount = len(sum.Items)
	return sum, nil
}

func (s *CartService) stockStatus(stock, wanted int) string {
	switch {
	case stock < wanted:
		return entity.StockOut
	case stock <= s.LowStock:
		return entity.StockLow
	default:
		return entity.StockIn
	}
}

// Add increments the quantity of a product in the cart. The product must be
// active; quantity must be positive.
func (s *CartService) Add(ctx context.Context, cartID, productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQty
	}
	if err := s.requireSellable(ctx, productID); err != nil {
		return err
	}
	return s.Carts.Add(ctx, cartID, productID, qty)
}

// SetQty overwrites a line's quantity. Zero or negative removes the line.
func (s *CartService) SetQty(ctx context.Context, cartID, productID string, qty int) error {
	if qty <= 0 {
		return s.Carts.Remove(ctx, cartID, productID)
	}
	if err := s.requireSellable(ctx, productID); err != nil {
		return err
	}
	return s.Carts.Set(ctx, cartID, productID, qty)
}

func (s *CartService) Remove(ctx context.Context, cartID, productID string) error {
	return s.Carts.Remove(ctx, cartID, productID)
}

func (s *CartService) Clear(ctx context.Context, cartID string) error {
	return s.Carts.Clear(ctx, cartID)
}

func (s *CartService) requireSellable(ctx context.Context, productID string) error {
	_, err := s.Products.GetActive(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotSellable
		}
		return err
	}
	return nil
}
