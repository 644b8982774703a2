package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nanoerp/nanoerp/internal/platform/db"
	"github.com/nanoerp/nanoerp/internal/shared"
)

// Repository defines data access for customers.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Search(ctx context.Context, query string) ([]Customer, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, c Customer) error
	Delete(ctx context.Context, id int64) error
	PurchaseStats(ctx context.Context, id int64) (PurchaseStats, error)
}

type repository struct {
	conn *sqlx.DB
}

// NewRepository constructs a SQLite-backed repository.
func NewRepository(conn *sqlx.DB) Repository {
	return &repository{conn: conn}
}

const customerColumns = `id, name, COALESCE(phone, '') AS phone, COALESCE(email, '') AS email,
	COALESCE(address, '') AS address, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.conn.GetContext(ctx, &c,
		fmt.Sprintf(`SELECT %s FROM customers WHERE id = ?`, customerColumns), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customers: %w", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("customers: get: %w", err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := r.conn.SelectContext(ctx, &out,
		fmt.Sprintf(`SELECT %s FROM customers ORDER BY name`, customerColumns))
	if err != nil {
		return nil, fmt.Errorf("customers: list: %w", err)
	}
	return out, nil
}

// Search matches name, email, or phone case-insensitively.
func (r *repository) Search(ctx context.Context, query string) ([]Customer, error) {
	pattern := "%" + query + "%"
	var out []Customer
	err := r.conn.SelectContext(ctx, &out, fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE name LIKE ? COLLATE NOCASE
		   OR email LIKE ? COLLATE NOCASE
		   OR phone LIKE ? COLLATE NOCASE
		ORDER BY name`, customerColumns),
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("customers: search: %w", err)
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, c Customer) (int64, error) {
	res, err := r.conn.ExecContext(ctx, `
		INSERT INTO customers (name, phone, email, address)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Phone, c.Email, c.Address)
	if err != nil {
		return 0, fmt.Errorf("customers: create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("customers: last insert id: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, c Customer) error {
	res, err := r.conn.ExecContext(ctx, `
		UPDATE customers
		SET name = ?, phone = ?, email = ?, address = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.Name, c.Phone, c.Email, c.Address, c.ID)
	if err != nil {
		return fmt.Errorf("customers: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customers: %w", shared.ErrNotFound)
	}
	return nil
}

// Delete removes the customer without touching their invoices: references are
// nulled so the invoices survive as walk-ins.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE invoices SET customer_id = NULL WHERE customer_id = ?`, id); err != nil {
			return fmt.Errorf("customers: detach invoices: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("customers: delete: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("customers: %w", shared.ErrNotFound)
		}
		return nil
	})
}

func (r *repository) PurchaseStats(ctx context.Context, id int64) (PurchaseStats, error) {
	var stats PurchaseStats
	err := r.conn.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS invoice_count, COALESCE(SUM(total), 0) AS total
		FROM invoices
		WHERE customer_id = ? AND status != 'cancelled'`, id)
	if err != nil {
		return PurchaseStats{}, fmt.Errorf("customers: purchase stats: %w", err)
	}
	return stats, nil
}
