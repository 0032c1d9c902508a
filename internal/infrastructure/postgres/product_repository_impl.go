package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	"github.com/shoplite/shoplite-api/internal/domain/repository"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `p.id, p.sku, p.name, p.description, p.price_cents, p.stock_qty,
	COALESCE(p.category_id::text, ''), COALESCE(c.name, ''), p.status, p.image_url,
	p.created_at, p.updated_at`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.PriceCents, &p.StockQty,
		&p.CategoryID, &p.Category, &p.Status, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id))
}

func (r *ProductRepository) GetActive(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.id = $1 AND p.status = $2`,
		id, entity.ProductActive))
}

func (r *ProductRepository) GetActiveByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	out := make(map[string]entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.id = ANY($1) AND p.status = $2`,
		ids, entity.ProductActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p := entity.Product{}
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.PriceCents, &p.StockQty,
			&p.CategoryID, &p.Category, &p.Status, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]entity.Product, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += " AND p.status = $" + strconv.Itoa(len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where += " AND c.name = $" + strconv.Itoa(len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where += " AND (p.name ILIKE $" + n + " OR p.description ILIKE $" + n + ")"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*)"+productFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY p.created_at DESC"
	switch f.Sort {
	case repository.SortPriceAsc:
		order = " ORDER BY p.price_cents ASC"
	case repository.SortPriceDesc:
		order = " ORDER BY p.price_cents DESC"
	}

	page, perPage := normalizePage(f.Page, f.PerPage)
	args = append(args, perPage, (page-1)*perPage)
	query := "SELECT " + productColumns + productFrom + where + order +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p := entity.Product{}
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.PriceCents, &p.StockQty,
			&p.CategoryID, &p.Category, &p.Status, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Categories(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []entity.Category
	for rows.Next() {
		c := entity.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *ProductRepository) EnsureCategory(ctx context.Context, name string) (*entity.Category, error) {
	c := &entity.Category{}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, '')
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id, name, description, created_at, updated_at
	`, name)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ProductRepository) CreateWithLog(ctx context.Context, p *entity.Product, log *entity.ActivityLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO products (sku, name, description, price_cents, stock_qty, category_id, status, image_url)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)
		RETURNING id, created_at, updated_at
	`, p.SKU, p.Name, p.Description, p.PriceCents, p.StockQty, p.CategoryID, p.Status, p.ImageURL)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateSKU
		}
		return err
	}

	if log != nil {
		log.TargetID = p.ID
	}
	if err := appendLog(ctx, tx, log); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProductRepository) UpdateWithLog(ctx context.Context, p *entity.Product, log *entity.ActivityLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p.UpdatedAt = time.Now()
	res, err := tx.Exec(ctx, `
		UPDATE products
		SET sku = $1, name = $2, description = $3, price_cents = $4, stock_qty = $5,
			category_id = NULLIF($6, '')::uuid, status = $7, image_url = $8, updated_at = $9
		WHERE id = $10
	`, p.SKU, p.Name, p.Description, p.PriceCents, p.StockQty, p.CategoryID, p.Status, p.ImageURL, p.UpdatedAt, p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateSKU
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	if err := appendLog(ctx, tx, log); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProductRepository) ArchiveWithLog(ctx context.Context, id string, log *entity.ActivityLog) (*entity.Product, error) {
	return r.mutateWithLog(ctx, log, `
		UPDATE products SET status = '`+entity.ProductArchived+`', updated_at = now() WHERE id = $1
	`, id)
}

func (r *ProductRepository) SetImageWithLog(ctx context.Context, id, imageURL string, log *entity.ActivityLog) (*entity.Product, error) {
	return r.mutateWithLog(ctx, log, `
		UPDATE products SET image_url = $1, updated_at = now() WHERE id = $2
	`, imageURL, id)
}

func (r *ProductRepository) mutateWithLog(ctx context.Context, log *entity.ActivityLog, sql string, args ...any) (*entity.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	if err := appendLog(ctx, tx, log); err != nil {
		return nil, err
	}

	id := args[len(args)-1]
	p, err := scanProduct(tx.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
