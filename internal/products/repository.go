package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nanoerp/nanoerp/internal/shared"
)

// Repository defines data access for products.
type Repository interface {
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	LowStock(ctx context.Context, threshold float64) ([]Product, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, delta float64) error
	ReferenceCount(ctx context.Context, id int64) (int, error)
}

type repository struct {
	conn *sqlx.DB
}

// NewRepository constructs a SQLite-backed repository.
func NewRepository(conn *sqlx.DB) Repository {
	return &repository{conn: conn}
}

const productColumns = `id, name, COALESCE(description, '') AS description,
	price, stock, is_service, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.conn.GetContext(ctx, &p,
		fmt.Sprintf(`SELECT %s FROM products WHERE id = ?`, productColumns), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("products: %w", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("products: get: %w", err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	var out []Product
	err := r.conn.SelectContext(ctx, &out,
		fmt.Sprintf(`SELECT %s FROM products ORDER BY name`, productColumns))
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	return out, nil
}

func (r *repository) Search(ctx context.Context, query string) ([]Product, error) {
	pattern := "%" + query + "%"
	var out []Product
	err := r.conn.SelectContext(ctx, &out, fmt.Sprintf(`
		SELECT %s FROM products
		WHERE name LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE
		ORDER BY name`, productColumns),
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("products: search: %w", err)
	}
	return out, nil
}

// LowStock returns non-service products with 0 < stock < threshold. Zero
// stock is out-of-stock, a different condition, and is excluded on purpose.
func (r *repository) LowStock(ctx context.Context, threshold float64) ([]Product, error) {
	var out []Product
	err := r.conn.SelectContext(ctx, &out, fmt.Sprintf(`
		SELECT %s FROM products
		WHERE stock < ? AND stock > 0 AND is_service = 0
		ORDER BY stock`, productColumns),
		threshold)
	if err != nil {
		return nil, fmt.Errorf("products: low stock: %w", err)
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	res, err := r.conn.ExecContext(ctx, `
		INSERT INTO products (name, description, price, stock, is_service)
		VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.Stock, p.IsService)
	if err != nil {
		return 0, fmt.Errorf("products: create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("products: last insert id: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, p Product) error {
	res, err := r.conn.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, stock = ?, is_service = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Stock, p.IsService, p.ID)
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("products: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("products: %w", shared.ErrNotFound)
	}
	return nil
}

// UpdateStock adjusts stock by delta for non-service products. Services are
// skipped silently.
func (r *repository) UpdateStock(ctx context.Context, id int64, delta float64) error {
	_, err := r.conn.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_service = 0`,
		delta, id)
	if err != nil {
		return fmt.Errorf("products: update stock: %w", err)
	}
	return nil
}

// ReferenceCount counts invoice_items rows still pointing at the product.
func (r *repository) ReferenceCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.conn.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM invoice_items WHERE product_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("products: reference count: %w", err)
	}
	return count, nil
}
