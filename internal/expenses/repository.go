package expenses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nanoerp/nanoerp/internal/shared"
)

// Repository defines data access for expenses.
type Repository interface {
	Get(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context) ([]Expense, error)
	ListByCategory(ctx context.Context, category string) ([]Expense, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, e Expense) (int64, error)
	Update(ctx context.Context, e Expense) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	conn *sqlx.DB
}

// NewRepository constructs a SQLite-backed repository.
func NewRepository(conn *sqlx.DB) Repository {
	return &repository{conn: conn}
}

const expenseColumns = `id, date, category, amount, COALESCE(description, '') AS description,
	COALESCE(payment_method, 'Cash') AS payment_method, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Expense, error) {
	var e Expense
	err := r.conn.GetContext(ctx, &e,
		fmt.Sprintf(`SELECT %s FROM expenses WHERE id = ?`, expenseColumns), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expenses: %w", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("expenses: get: %w", err)
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context) ([]Expense, error) {
	var out []Expense
	err := r.conn.SelectContext(ctx, &out,
		fmt.Sprintf(`SELECT %s FROM expenses ORDER BY date DESC, id DESC`, expenseColumns))
	if err != nil {
		return nil, fmt.Errorf("expenses: list: %w", err)
	}
	return out, nil
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]Expense, error) {
	var out []Expense
	err := r.conn.SelectContext(ctx, &out,
		fmt.Sprintf(`SELECT %s FROM expenses WHERE category = ? ORDER BY date DESC, id DESC`, expenseColumns),
		category)
	if err != nil {
		return nil, fmt.Errorf("expenses: list by category: %w", err)
	}
	return out, nil
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.conn.SelectContext(ctx, &out,
		`SELECT DISTINCT category FROM expenses ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("expenses: categories: %w", err)
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, e Expense) (int64, error) {
	res, err := r.conn.ExecContext(ctx, `
		INSERT INTO expenses (date, category, amount, description, payment_method)
		VALUES (?, ?, ?, ?, ?)`,
		e.Date, e.Category, e.Amount, e.Description, e.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("expenses: create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expenses: last insert id: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, e Expense) error {
	res, err := r.conn.ExecContext(ctx, `
		UPDATE expenses
		SET date = ?, category = ?, amount = ?, description = ?, payment_method = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		e.Date, e.Category, e.Amount, e.Description, e.PaymentMethod, e.ID)
	if err != nil {
		return fmt.Errorf("expenses: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expenses: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("expenses: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expenses: %w", shared.ErrNotFound)
	}
	return nil
}
