package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nanoerp/nanoerp/internal/invoices"
	"github.com/nanoerp/nanoerp/internal/platform/db"
	"github.com/nanoerp/nanoerp/internal/shared"
)

// InvoicePosition is the header slice the tracker needs from an invoice.
type InvoicePosition struct {
	Total  float64         `db:"total"`
	Status invoices.Status `db:"status"`
}

// Repository defines data access for payments. Mutations that change an
// invoice's status run payment insert and status update in one transaction.
type Repository interface {
	Get(ctx context.Context, id int64) (*Payment, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]Payment, error)
	InvoicePosition(ctx context.Context, invoiceID int64) (*InvoicePosition, error)
	Add(ctx context.Context, p *Payment) (invoices.Status, error)
	MarkPaid(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p Payment) error
}

type repository struct {
	conn *sqlx.DB
}

// NewRepository constructs a SQLite-backed repository.
func NewRepository(conn *sqlx.DB) Repository {
	return &repository{conn: conn}
}

const paymentColumns = `id, invoice_id, amount, payment_date,
	COALESCE(method, 'Cash') AS method, COALESCE(notes, '') AS notes, created_at`

func (r *repository) Get(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	err := r.conn.GetContext(ctx, &p,
		fmt.Sprintf(`SELECT %s FROM payments WHERE id = ?`, paymentColumns), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payments: %w", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("payments: get: %w", err)
	}
	return &p, nil
}

func (r *repository) ListByInvoice(ctx context.Context, invoiceID int64) ([]Payment, error) {
	var out []Payment
	err := r.conn.SelectContext(ctx, &out,
		fmt.Sprintf(`SELECT %s FROM payments WHERE invoice_id = ? ORDER BY payment_date, id`, paymentColumns),
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("payments: list by invoice: %w", err)
	}
	return out, nil
}

func (r *repository) InvoicePosition(ctx context.Context, invoiceID int64) (*InvoicePosition, error) {
	var pos InvoicePosition
	err := r.conn.GetContext(ctx, &pos,
		`SELECT total, status FROM invoices WHERE id = ?`, invoiceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payments: invoice %d: %w", invoiceID, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("payments: invoice position: %w", err)
	}
	return &pos, nil
}

// Add inserts the payment and recomputes the invoice status from the new
// payment sum. The returned status is the one persisted.
func (r *repository) Add(ctx context.Context, p *Payment) (invoices.Status, error) {
	var status invoices.Status
	err := db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO payments (invoice_id, amount, payment_date, method, notes)
			VALUES (?, ?, ?, ?, ?)`,
			p.InvoiceID, p.Amount, p.PaymentDate, p.Method, p.Notes)
		if err != nil {
			return fmt.Errorf("payments: insert: %w", err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("payments: last insert id: %w", err)
		}

		var pos struct {
			Total float64 `db:"total"`
			Paid  float64 `db:"paid"`
		}
		err = tx.GetContext(ctx, &pos, `
			SELECT i.total AS total,
			       COALESCE((SELECT SUM(amount) FROM payments WHERE invoice_id = i.id), 0) AS paid
			FROM invoices i WHERE i.id = ?`, p.InvoiceID)
		if err != nil {
			return fmt.Errorf("payments: sum: %w", err)
		}

		switch {
		case pos.Paid >= pos.Total:
			status = invoices.StatusPaid
		case pos.Paid > 0:
			status = invoices.StatusPartial
		default:
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			status, p.InvoiceID)
		if err != nil {
			return fmt.Errorf("payments: set invoice status: %w", err)
		}
		return nil
	})
	return status, err
}

// MarkPaid inserts the settlement payment and sets the invoice paid directly,
// in one transaction.
func (r *repository) MarkPaid(ctx context.Context, p *Payment) error {
	return db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO payments (invoice_id, amount, payment_date, method, notes)
			VALUES (?, ?, ?, ?, ?)`,
			p.InvoiceID, p.Amount, p.PaymentDate, p.Method, p.Notes)
		if err != nil {
			return fmt.Errorf("payments: insert: %w", err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("payments: last insert id: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			invoices.StatusPaid, p.InvoiceID)
		if err != nil {
			return fmt.Errorf("payments: set invoice status: %w", err)
		}
		return nil
	})
}

func (r *repository) Update(ctx context.Context, p Payment) error {
	res, err := r.conn.ExecContext(ctx, `
		UPDATE payments SET amount = ?, payment_date = ?, method = ?, notes = ?
		WHERE id = ?`,
		p.Amount, p.PaymentDate, p.Method, p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("payments: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("payments: %w", shared.ErrNotFound)
	}
	return nil
}
