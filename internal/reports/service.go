package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/nanoerp/nanoerp/internal/products"
	"github.com/nanoerp/nanoerp/internal/settings"
)

const dateLayout = "2006-01-02"

// Service answers aggregate queries. Identical concurrent requests collapse
// into a single database pass.
type Service struct {
	conn              *sqlx.DB
	settings          *settings.Store
	lowStockThreshold float64
	group             singleflight.Group
	now               func() time.Time
}

// NewService builds a Service. A non-positive threshold falls back to the
// products default.
func NewService(conn *sqlx.DB, store *settings.Store, lowStockThreshold float64) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = products.DefaultLowStockThreshold
	}
	return &Service{
		conn:              conn,
		settings:          store,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *Service) collapse(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Dashboard returns the landing-page snapshot: open work, catalogue size and
// month-to-date sales.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	v, err := s.collapse(ctx, "dashboard", func(ctx context.Context) (any, error) {
		monthStart := s.now().Format("2006-01") + "-01"

		var d Dashboard
		err := s.conn.GetContext(ctx, &d, `
			SELECT
				(SELECT COUNT(*) FROM invoices WHERE status IN ('pending', 'partial')) AS pending_invoices,
				(SELECT COUNT(*) FROM customers) AS customers,
				(SELECT COUNT(*) FROM products) AS products,
				(SELECT COUNT(*) FROM products
				 WHERE stock < ? AND stock > 0 AND is_service = 0) AS low_stock_products,
				(SELECT COALESCE(SUM(total), 0) FROM invoices
				 WHERE status != 'cancelled' AND date >= ?) AS month_sales`,
			s.lowStockThreshold, monthStart)
		if err != nil {
			return nil, fmt.Errorf("reports: dashboard: %w", err)
		}
		d.MonthSalesDisplay = newFormatter(ctx, s.settings).money(d.MonthSales)
		return &d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dashboard), nil
}

// SalesSummary aggregates invoices dated within [from, to]. Cancelled
// invoices and their payments are excluded.
func (s *Service) SalesSummary(ctx context.Context, from, to string) (*SalesSummary, error) {
	key := fmt.Sprintf("sales:%s:%s", from, to)
	v, err := s.collapse(ctx, key, func(ctx context.Context) (any, error) {
		var sum SalesSummary
		err := s.conn.GetContext(ctx, &sum, `
			SELECT COUNT(*) AS invoice_count,
			       COALESCE(SUM(subtotal), 0) AS subtotal,
			       COALESCE(SUM(tax_amount), 0) AS tax,
			       COALESCE(SUM(total), 0) AS total,
			       COALESCE((SELECT SUM(p.amount)
			                 FROM payments p
			                 JOIN invoices pi ON pi.id = p.invoice_id
			                 WHERE pi.status != 'cancelled'
			                   AND pi.date BETWEEN ? AND ?), 0) AS collected
			FROM invoices
			WHERE status != 'cancelled' AND date BETWEEN ? AND ?`,
			from, to, from, to)
		if err != nil {
			return nil, fmt.Errorf("reports: sales summary: %w", err)
		}
		sum.From, sum.To = from, to
		sum.Outstanding = sum.Total - sum.Collected

		f := newFormatter(ctx, s.settings)
		sum.TotalDisplay = f.money(sum.Total)
		sum.CollectedDisplay = f.money(sum.Collected)
		sum.OutstandingDisplay = f.money(sum.Outstanding)
		return &sum, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SalesSummary), nil
}

// ExpensesByCategory groups expenses dated within [from, to].
func (s *Service) ExpensesByCategory(ctx context.Context, from, to string) ([]ExpenseCategory, error) {
	key := fmt.Sprintf("expenses:%s:%s", from, to)
	v, err := s.collapse(ctx, key, func(ctx context.Context) (any, error) {
		var out []ExpenseCategory
		err := s.conn.SelectContext(ctx, &out, `
			SELECT category, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
			FROM expenses
			WHERE date BETWEEN ? AND ?
			GROUP BY category
			ORDER BY amount DESC`,
			from, to)
		if err != nil {
			return nil, fmt.Errorf("reports: expenses by category: %w", err)
		}
		f := newFormatter(ctx, s.settings)
		for i := range out {
			out[i].AmountDisplay = f.money(out[i].Amount)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ExpenseCategory), nil
}

// TopProducts ranks products by quantity sold on non-cancelled invoices.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	key := fmt.Sprintf("top-products:%d", limit)
	v, err := s.collapse(ctx, key, func(ctx context.Context) (any, error) {
		var out []TopProduct
		err := s.conn.SelectContext(ctx, &out, `
			SELECT p.id AS product_id, p.name AS name,
			       COALESCE(SUM(it.quantity), 0) AS quantity_sold,
			       COALESCE(SUM(it.total), 0) AS revenue
			FROM invoice_items it
			JOIN products p ON p.id = it.product_id
			JOIN invoices i ON i.id = it.invoice_id
			WHERE i.status != 'cancelled'
			GROUP BY p.id, p.name
			ORDER BY quantity_sold DESC
			LIMIT ?`,
			limit)
		if err != nil {
			return nil, fmt.Errorf("reports: top products: %w", err)
		}
		f := newFormatter(ctx, s.settings)
		for i := range out {
			out[i].RevenueDisplay = f.money(out[i].Revenue)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]TopProduct), nil
}
