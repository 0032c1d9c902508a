package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	"github.com/shoplite/shoplite-api/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// PlaceOrder creates a paid order in one transaction. Product rows are
// locked in a stable order, stock is revalidated under the lock, and line
// prices are frozen from the catalog values read inside the transaction.
func (r *OrderRepository) PlaceOrder(ctx context.Context, userID string, requested map[string]int) (*entity.Order, error) {
	if len(requested) == 0 {
		return nil, repository.ErrNotFound
	}

	// Lock rows in sorted id order so concurrent checkouts cannot deadlock.
	ids := make([]string, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order := &entity.Order{UserID: userID, Status: entity.OrderPaid}
	for _, id := range ids {
		qty := requested[id]
		var (
			name, sku string
			price     int64
			stock     int
		)
		err := tx.QueryRow(ctx, `
			SELECT name, sku, price_cents, stock_qty
			FROM products
			WHERE id = $1 AND status = $2
			FOR UPDATE
		`, id, entity.ProductActive).Scan(&name, &sku, &price, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s", repository.ErrProductUnavailable, id)
		}
		if err != nil {
			return nil, err
		}
		if stock < qty {
			return nil, fmt.Errorf("%w: %q has %d left", repository.ErrInsufficientStock, name, stock)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products SET stock_qty = stock_qty - $1, updated_at = now() WHERE id = $2
		`, qty, id); err != nil {
			return nil, err
		}

		subtotal := price * int64(qty)
		order.TotalCents += subtotal
		order.Items = append(order.Items, entity.OrderItem{
			ProductID:      id,
			ProductName:    name,
			SKU:            sku,
			UnitPriceCents: price,
			Qty:            qty,
			SubtotalCents:  subtotal,
		})
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_cents)
		VALUES ($1, $2, $3)
		RETURNING id, placed_at
	`, order.UserID, order.Status, order.TotalCents)
	if err := row.Scan(&order.ID, &order.PlacedAt); err != nil {
		return nil, err
	}

	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.ID
		row := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, sku, unit_price_cents, qty, subtotal_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, it.OrderID, it.ProductID, it.ProductName, it.SKU, it.UnitPriceCents, it.Qty, it.SubtotalCents)
		if err := row.Scan(&it.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o := &entity.Order{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, status, total_cents, placed_at
		FROM orders
		WHERE id = $1
	`, id)
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.PlacedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where += " AND user_id = $" + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += " AND status = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(f.Page, f.PerPage)
	args = append(args, perPage, (page-1)*perPage)
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, status, total_cents, placed_at
		FROM orders`+where+`
		ORDER BY placed_at DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o := entity.Order{}
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.PlacedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	refs := make([]*entity.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, sku, unit_price_cents, qty, subtotal_cents
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		it := entity.OrderItem{}
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SKU,
			&it.UnitPriceCents, &it.Qty, &it.SubtotalCents); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (r *OrderRepository) ChangeStatusWithLog(ctx context.Context, id, to string, log *entity.ActivityLog) (*entity.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !entity.ValidOrderStatus(to) || !entity.CanTransition(current, to) {
		return nil, fmt.Errorf("%w: %s -> %s", repository.ErrInvalidTransition, current, to)
	}

	if to == entity.OrderCanceled {
		if err := restoreStock(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, to, id); err != nil {
		return nil, err
	}

	if log != nil {
		if log.Details == nil {
			log.Details = map[string]any{}
		}
		log.Details["previous"] = current
		log.Details["new"] = to
	}
	if err := appendLog(ctx, tx, log); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) CancelByOwner(ctx context.Context, id, userID string) (*entity.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `
		SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE
	`, id, userID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// Owners may only back out before payment settles.
	if current != entity.OrderPending {
		return nil, fmt.Errorf("%w: %s -> %s", repository.ErrInvalidTransition, current, entity.OrderCanceled)
	}

	if err := restoreStock(ctx, tx, id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, entity.OrderCanceled, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// restoreStock returns every ordered quantity to its product. Runs inside
// the caller's transaction.
func restoreStock(ctx context.Context, tx pgx.Tx, orderID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE products p
		SET stock_qty = p.stock_qty + oi.qty, updated_at = now()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id
	`, orderID)
	return err
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
