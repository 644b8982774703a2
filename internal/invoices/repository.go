package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nanoerp/nanoerp/internal/platform/db"
	"github.com/nanoerp/nanoerp/internal/products"
	"github.com/nanoerp/nanoerp/internal/shared"
)

// Repository defines data access for invoices. Save and Delete carry their
// stock and numbering side effects inside a single transaction.
type Repository interface {
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status Status) error
}

type repository struct {
	conn  *sqlx.DB
	stock *products.StockAdjuster
}

// NewRepository constructs a SQLite-backed repository.
func NewRepository(conn *sqlx.DB, stock *products.StockAdjuster) Repository {
	return &repository{conn: conn, stock: stock}
}

const invoiceColumns = `i.id, i.invoice_number, i.customer_id,
	COALESCE(c.name, '') AS customer_name,
	i.date, COALESCE(i.due_date, '') AS due_date,
	i.subtotal, i.discount_amount, i.discount_percentage, i.discounted_subtotal,
	i.tax_rate, i.tax_amount, i.total, i.status, COALESCE(i.notes, '') AS notes,
	i.created_at, i.updated_at`

const invoiceFrom = `FROM invoices i LEFT JOIN customers c ON c.id = i.customer_id`

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	err := r.conn.GetContext(ctx, &inv,
		fmt.Sprintf(`SELECT %s %s WHERE i.id = ?`, invoiceColumns, invoiceFrom), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoices: %w", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("invoices: get: %w", err)
	}

	err = r.conn.SelectContext(ctx, &inv.Items, `
		SELECT id, invoice_id, product_id, description, quantity, unit_price, total, created_at
		FROM invoice_items WHERE invoice_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("invoices: get items: %w", err)
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Invoice, error) {
	conditions := []string{"1 = 1"}
	args := []any{}

	if filter.Status != "" {
		conditions = append(conditions, "i.status = ?")
		args = append(args, filter.Status)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, "i.date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, "i.date <= ?")
		args = append(args, filter.DateTo)
	}
	if filter.Search != "" {
		conditions = append(conditions,
			"(i.invoice_number LIKE ? COLLATE NOCASE OR c.name LIKE ? COLLATE NOCASE)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.PaymentMethod != "" {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM payments p WHERE p.invoice_id = i.id AND p.method = ?)")
		args = append(args, filter.PaymentMethod)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY i.date DESC, i.id DESC`,
		invoiceColumns, invoiceFrom, strings.Join(conditions, " AND "))

	var out []Invoice
	if err := r.conn.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("invoices: list: %w", err)
	}
	return out, nil
}

// Save persists the invoice atomically. Inserts resolve a blank number from
// the invoice counter and advance it; updates replace the item list and
// reconcile stock by restoring the old items before applying the new ones.
func (r *repository) Save(ctx context.Context, inv *Invoice) error {
	err := db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		if inv.ID == 0 {
			return r.insert(ctx, tx, inv)
		}
		return r.update(ctx, tx, inv)
	})
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("invoices: number %q: %w", inv.InvoiceNumber, shared.ErrDuplicate)
	}
	return err
}

func (r *repository) insert(ctx context.Context, tx *sqlx.Tx, inv *Invoice) error {
	if inv.InvoiceNumber == "" {
		var next string
		err := tx.GetContext(ctx, &next,
			`SELECT value FROM settings WHERE key = 'next_invoice_number'`)
		if errors.Is(err, sql.ErrNoRows) {
			next = "1001"
		} else if err != nil {
			return fmt.Errorf("invoices: next number: %w", err)
		}
		inv.InvoiceNumber = next
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO invoices (invoice_number, customer_id, date, due_date,
			subtotal, discount_amount, discount_percentage, discounted_subtotal,
			tax_rate, tax_amount, total, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.InvoiceNumber, inv.CustomerID, inv.Date, inv.DueDate,
		inv.Subtotal, inv.DiscountAmount, inv.DiscountPercentage, inv.DiscountedSubtotal,
		inv.TaxRate, inv.TaxAmount, inv.Total, inv.Status, inv.Notes)
	if err != nil {
		return fmt.Errorf("invoices: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("invoices: last insert id: %w", err)
	}
	inv.ID = id

	if err := r.insertItems(ctx, tx, inv); err != nil {
		return err
	}
	for i := range inv.Items {
		if err := r.stock.Apply(ctx, tx, inv.Items[i].ProductID, -inv.Items[i].Quantity); err != nil {
			return err
		}
	}

	// Advance the counter only for numeric numbers; custom text numbers
	// leave it untouched.
	if n, err := strconv.Atoi(inv.InvoiceNumber); err == nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value, updated_at)
			VALUES ('next_invoice_number', ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			strconv.Itoa(n+1))
		if err != nil {
			return fmt.Errorf("invoices: advance counter: %w", err)
		}
	}
	return nil
}

func (r *repository) update(ctx context.Context, tx *sqlx.Tx, inv *Invoice) error {
	old, err := r.loadItemRefs(ctx, tx, inv.ID)
	if err != nil {
		return err
	}
	for _, it := range old {
		if err := r.stock.Apply(ctx, tx, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET invoice_number = ?, customer_id = ?, date = ?, due_date = ?,
		    subtotal = ?, discount_amount = ?, discount_percentage = ?,
		    discounted_subtotal = ?, tax_rate = ?, tax_amount = ?, total = ?,
		    status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		inv.InvoiceNumber, inv.CustomerID, inv.Date, inv.DueDate,
		inv.Subtotal, inv.DiscountAmount, inv.DiscountPercentage,
		inv.DiscountedSubtotal, inv.TaxRate, inv.TaxAmount, inv.Total,
		inv.Status, inv.Notes, inv.ID)
	if err != nil {
		return fmt.Errorf("invoices: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("invoices: %w", shared.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, inv.ID); err != nil {
		return fmt.Errorf("invoices: clear items: %w", err)
	}
	if err := r.insertItems(ctx, tx, inv); err != nil {
		return err
	}
	for i := range inv.Items {
		if err := r.stock.Apply(ctx, tx, inv.Items[i].ProductID, -inv.Items[i].Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) insertItems(ctx context.Context, tx *sqlx.Tx, inv *Invoice) error {
	for i := range inv.Items {
		it := &inv.Items[i]
		it.InvoiceID = inv.ID
		res, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_items (invoice_id, product_id, description, quantity, unit_price, total)
			VALUES (?, ?, ?, ?, ?, ?)`,
			it.InvoiceID, it.ProductID, it.Description, it.Quantity, it.UnitPrice, it.Total)
		if err != nil {
			return fmt.Errorf("invoices: insert item: %w", err)
		}
		if it.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("invoices: item id: %w", err)
		}
	}
	return nil
}

type itemRef struct {
	ProductID *int64  `db:"product_id"`
	Quantity  float64 `db:"quantity"`
}

func (r *repository) loadItemRefs(ctx context.Context, tx *sqlx.Tx, invoiceID int64) ([]itemRef, error) {
	var out []itemRef
	err := tx.SelectContext(ctx, &out,
		`SELECT product_id, quantity FROM invoice_items WHERE invoice_id = ?`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoices: load item refs: %w", err)
	}
	return out, nil
}

// Delete removes the invoice, its items and its payments, restoring stock
// for every line, all in one transaction.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		items, err := r.loadItemRefs(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := r.stock.Apply(ctx, tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE invoice_id = ?`, id); err != nil {
			return fmt.Errorf("invoices: delete payments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, id); err != nil {
			return fmt.Errorf("invoices: delete items: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("invoices: delete: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("invoices: %w", shared.ErrNotFound)
		}
		return nil
	})
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.conn.ExecContext(ctx, `
		UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	if err != nil {
		return fmt.Errorf("invoices: set status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("invoices: %w", shared.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
