package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

func newOrderFixture(t *testing.T) (*OrderService, *fakeOrderRepo, *fakeProductRepo) {
	t.Helper()
	products := newFakeProductRepo(
		&entity.Product{ID: "p1", SKU: "SKU-1", Name: "Espresso Roast", PriceCents: 1000, StockQty: 10},
	)
	orders := newFakeOrderRepo(products)
	return NewOrderService(orders, testLogger()), orders, products
}

func TestOrderOwnershipHidesForeignOrders(t *testing.T) {
	svc, orders, _ := newOrderFixture(t)
	ctx := context.Background()

	order, err := orders.PlaceOrder(ctx, "alice", map[string]int{"p1": 1})
	require.NoError(t, err)

	// owner sees it
	got, err := svc.GetFor(ctx, order.ID, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// another customer gets not-found, not forbidden
	_, err = svc.GetFor(ctx, order.ID, "bob", false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// admins see everything
	got, err = svc.GetFor(ctx, order.ID, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderListScopedToOwner(t *testing.T) {
	svc, orders, _ := newOrderFixture(t)
	ctx := context.Background()

	_, err := orders.PlaceOrder(ctx, "alice", map[string]int{"p1": 1})
	require.NoError(t, err)
	_, err = orders.PlaceOrder(ctx, "bob", map[string]int{"p1": 1})
	require.NoError(t, err)

	mine, total, err := svc.ListFor(ctx, "alice", false, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].UserID)

	all, total, err := svc.ListFor(ctx, "alice", true, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}

func TestOwnerCancelOnlyWhilePending(t *testing.T) {
	svc, orders, products := newOrderFixture(t)
	ctx := context.Background()

	order, err := orders.PlaceOrder(ctx, "alice", map[string]int{"p1": 2})
	require.NoError(t, err)
	// orders are created paid; owner cancel requires pending
	_, err = svc.Cancel(ctx, order.ID, "alice")
	assert.ErrorIs(t, err, ErrNotCancelable)

	// force back to pending, then cancel restores stock
	orders.mu.Lock()
	orders.orders[order.ID].Status = entity.OrderPending
	orders.mu.Unlock()

	got, err := svc.Cancel(ctx, order.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCanceled, got.Status)

	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockQty)
}

func TestCancelForeignOrder(t *testing.T) {
	svc, orders, _ := newOrderFixture(t)
	ctx := context.Background()

	order, err := orders.PlaceOrder(ctx, "alice", map[string]int{"p1": 1})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, order.ID, "bob")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
