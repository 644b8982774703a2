package reports

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nanoerp/nanoerp/internal/platform/db/dbtest"
	"github.com/nanoerp/nanoerp/internal/settings"
)

func newTestService(t *testing.T) (*Service, *sqlx.DB) {
	conn := dbtest.Open(t)
	return NewService(conn, settings.NewStore(conn), 10), conn
}

func seedInvoice(t *testing.T, conn *sqlx.DB, number, date, status string, total float64) int64 {
	t.Helper()
	res, err := conn.Exec(`
		INSERT INTO invoices (invoice_number, date, subtotal, discounted_subtotal, tax_rate, tax_amount, total, status)
		VALUES (?, ?, ?, ?, 0, 0, ?, ?)`,
		number, date, total, total, total, status)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestSalesSummaryExcludesCancelled(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	live := seedInvoice(t, conn, "2001", "2026-03-10", "partial", 100)
	seedInvoice(t, conn, "2002", "2026-03-15", "cancelled", 500)
	seedInvoice(t, conn, "2003", "2026-04-01", "pending", 50)

	_, err := conn.Exec(
		`INSERT INTO payments (invoice_id, amount, payment_date, method) VALUES (?, 40, '2026-03-11', 'Cash')`,
		live)
	require.NoError(t, err)

	sum, err := svc.SalesSummary(ctx, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Equal(t, 1, sum.InvoiceCount)
	require.InDelta(t, 100, sum.Total, 1e-9)
	require.InDelta(t, 40, sum.Collected, 1e-9)
	require.InDelta(t, 60, sum.Outstanding, 1e-9)
	require.Contains(t, sum.TotalDisplay, "100.00")
	// Seeded currency symbol.
	require.Contains(t, sum.TotalDisplay, "₹")
}

func TestDashboardCounts(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	_, err := conn.Exec(`INSERT INTO customers (name) VALUES ('Asha'), ('Vikram')`)
	require.NoError(t, err)
	_, err = conn.Exec(`
		INSERT INTO products (name, price, stock, is_service) VALUES
		('Plenty', 10, 100, 0),
		('Scarce', 10, 3, 0),
		('Plan', 10, 0, 1)`)
	require.NoError(t, err)
	seedInvoice(t, conn, "2001", "2026-03-10", "pending", 100)
	seedInvoice(t, conn, "2002", "2026-03-12", "paid", 200)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, d.PendingInvoices)
	require.Equal(t, 2, d.Customers)
	require.Equal(t, 3, d.Products)
	require.Equal(t, 1, d.LowStockProducts)
	require.NotEmpty(t, d.MonthSalesDisplay)
}

func TestExpensesByCategoryOrdersByAmount(t *testing.T) {
	svc, conn := newTestService(t)

	_, err := conn.Exec(`
		INSERT INTO expenses (date, category, amount) VALUES
		('2026-03-01', 'Rent', 12000),
		('2026-03-02', 'Utilities', 800),
		('2026-03-05', 'Utilities', 450),
		('2026-04-01', 'Rent', 12000)`)
	require.NoError(t, err)

	out, err := svc.ExpensesByCategory(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Rent", out[0].Category)
	require.InDelta(t, 12000, out[0].Amount, 1e-9)
	require.Equal(t, 2, out[1].Count)
	require.Contains(t, out[0].AmountDisplay, "12,000.00")
}

func TestTopProductsRanksByQuantity(t *testing.T) {
	svc, conn := newTestService(t)

	_, err := conn.Exec(`
		INSERT INTO products (id, name, price) VALUES (1, 'Widget', 50), (2, 'Gadget', 80)`)
	require.NoError(t, err)
	live := seedInvoice(t, conn, "2001", "2026-03-10", "paid", 0)
	dead := seedInvoice(t, conn, "2002", "2026-03-11", "cancelled", 0)
	_, err = conn.Exec(`
		INSERT INTO invoice_items (invoice_id, product_id, description, quantity, unit_price, total) VALUES
		(?, 1, 'Widget', 5, 50, 250),
		(?, 2, 'Gadget', 2, 80, 160),
		(?, 1, 'Widget', 99, 50, 4950)`,
		live, live, dead)
	require.NoError(t, err)

	out, err := svc.TopProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Widget", out[0].Name)
	require.InDelta(t, 5, out[0].QuantitySold, 1e-9)
	require.InDelta(t, 250, out[0].Revenue, 1e-9)
}
