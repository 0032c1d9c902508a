package application

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newCartFixture(t *testing.T) (*CartService, *fakeCartRepo, *fakeProductRepo) {
	t.Helper()
	products := newFakeProductRepo(
		&entity.Product{ID: "p1", SKU: "SKU-1", Name: "Espresso Roast", PriceCents: 1000, StockQty: 10},
		&entity.Product{ID: "p2", SKU: "SKU-2", Name: "Filter Blend", PriceCents: 2500, StockQty: 3},
		&entity.Product{ID: "p3", SKU: "SKU-3", Name: "Old Grinder", PriceCents: 9900, StockQty: 5, Status: entity.ProductArchived},
	)
	carts := newFakeCartRepo()
	return NewCartService(carts, products, testLogger(), 5), carts, products
}

func TestCartSummaryTotals(t *testing.T) {
	svc, _, _ := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "c1", "p1", 2))
	require.NoError(t, svc.Add(ctx, "c1", "p2", 1))

	sum, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, sum.Items, 2)
	assert.Equal(t, int64(2*1000+2500), sum.TotalCents)
	// one line per product regardless of units
	assert.Equal(t, 2, sum.ItemCount)

	var total int64
	for _, line := range sum.Items {
		assert.Equal(t, line.UnitPriceCents*int64(line.Qty), line.SubtotalCents)
		total += line.SubtotalCents
	}
	assert.Equal(t, total, sum.TotalCents)
}

func TestCartAddRejectsArchivedAndUnknown(t *testing.T) {
	svc, _, _ := newCartFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Add(ctx, "c1", "p3", 1), ErrProductNotSellable)
	assert.ErrorIs(t, svc.Add(ctx, "c1", "nope", 1), ErrProductNotSellable)
	assert.ErrorIs(t, svc.Add(ctx, "c1", "p1", 0), ErrInvalidQty)
	assert.ErrorIs(t, svc.Add(ctx, "c1", "p1", -2), ErrInvalidQty)

	sum, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, sum.Items)
}

func TestCartSummarySkipsProductsArchivedAfterAdd(t *testing.T) {
	svc, _, products := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "c1", "p1", 1))
	require.NoError(t, svc.Add(ctx, "c1", "p2", 1))

	// archive p2 after it was added
	products.mu.Lock()
	products.products["p2"].Status = entity.ProductArchived
	products.mu.Unlock()

	sum, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, sum.Items, 1)
	assert.Equal(t, "p1", sum.Items[0].ProductID)
	assert.Equal(t, int64(1000), sum.TotalCents)
}

func TestCartSetQtyZeroRemovesLine(t *testing.T) {
	svc, _, _ := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "c1", "p1", 2))
	require.NoError(t, svc.SetQty(ctx, "c1", "p1", 0))

	sum, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, sum.Items)
	assert.Zero(t, sum.TotalCents)
}

func TestCartStockStatus(t *testing.T) {
	svc, _, _ := newCartFixture(t)
	ctx := context.Background()

	// p2 has stock 3 with low-stock level 5
	require.NoError(t, svc.Add(ctx, "c1", "p2", 2))
	sum, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, sum.Items, 1)
	assert.Equal(t, entity.StockLow, sum.Items[0].StockStatus)

	// wanting more than available reads as out of stock
	require.NoError(t, svc.SetQty(ctx, "c1", "p2", 4))
	sum, err = svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StockOut, sum.Items[0].StockStatus)

	// p1 has plenty
	require.NoError(t, svc.Add(ctx, "c2", "p1", 1))
	sum, err = svc.Summary(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, entity.StockIn, sum.Items[0].StockStatus)
}

func TestCartClear(t *testing.T) {
	svc, _, _ := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "c1", "p1", 2))
	require.NoError(t, svc.Clear(ctx, "c1"))

	sum, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, sum.Items)
}
