package invoices

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nanoerp/nanoerp/internal/platform/db/dbtest"
	"github.com/nanoerp/nanoerp/internal/products"
	"github.com/nanoerp/nanoerp/internal/settings"
	"github.com/nanoerp/nanoerp/internal/shared"
)

func newTestService(t *testing.T) (*Service, *sqlx.DB) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn, products.NewStockAdjuster())
	return NewService(repo, settings.NewStore(conn)), conn
}

func insertProduct(t *testing.T, conn *sqlx.DB, name string, stock float64, isService bool) int64 {
	t.Helper()
	res, err := conn.Exec(
		`INSERT INTO products (name, price, stock, is_service) VALUES (?, ?, ?, ?)`,
		name, 50.0, stock, isService)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func stockOf(t *testing.T, conn *sqlx.DB, id int64) float64 {
	t.Helper()
	var stock float64
	require.NoError(t, conn.Get(&stock, `SELECT stock FROM products WHERE id = ?`, id))
	return stock
}

func TestCreateAssignsNumberAndAdvancesCounter(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, SaveInvoiceRequest{
		Items: []ItemInput{{Description: "Consulting", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)
	require.Equal(t, "1001", first.InvoiceNumber)

	var next string
	require.NoError(t, conn.Get(&next, `SELECT value FROM settings WHERE key = 'next_invoice_number'`))
	require.Equal(t, "1002", next)

	second, err := svc.Create(ctx, SaveInvoiceRequest{
		Items: []ItemInput{{Description: "Consulting", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)
	require.Equal(t, "1002", second.InvoiceNumber)
}

func TestCreateWithTextNumberLeavesCounterAlone(t *testing.T) {
	svc, conn := newTestService(t)

	inv, err := svc.Create(context.Background(), SaveInvoiceRequest{
		InvoiceNumber: "DRAFT-7",
		Items:         []ItemInput{{Description: "Setup fee", Quantity: 1, UnitPrice: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, "DRAFT-7", inv.InvoiceNumber)

	var next string
	require.NoError(t, conn.Get(&next, `SELECT value FROM settings WHERE key = 'next_invoice_number'`))
	require.Equal(t, "1001", next)
}

func TestCreateDuplicateNumberRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := SaveInvoiceRequest{
		InvoiceNumber: "1050",
		Items:         []ItemInput{{Description: "Widget", Quantity: 1, UnitPrice: 5}},
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestSaveAdjustsStockAndDeleteRestoresIt(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	productID := insertProduct(t, conn, "Widget", 10, false)

	inv, err := svc.Create(ctx, SaveInvoiceRequest{
		Items: []ItemInput{{ProductID: &productID, Description: "Widget", Quantity: 3, UnitPrice: 50}},
	})
	require.NoError(t, err)
	require.InDelta(t, 7, stockOf(t, conn, productID), 1e-9)

	require.NoError(t, svc.Delete(ctx, inv.ID))
	require.InDelta(t, 10, stockOf(t, conn, productID), 1e-9)

	_, err = svc.Get(ctx, inv.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateReconcilesStockAndReplacesItems(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	productID := insertProduct(t, conn, "Widget", 10, false)

	inv, err := svc.Create(ctx, SaveInvoiceRequest{
		Items: []ItemInput{{ProductID: &productID, Description: "Widget", Quantity: 3, UnitPrice: 50}},
	})
	require.NoError(t, err)
	require.InDelta(t, 7, stockOf(t, conn, productID), 1e-9)

	updated, err := svc.Update(ctx, inv.ID, SaveInvoiceRequest{
		Items: []ItemInput{{ProductID: &productID, Description: "Widget", Quantity: 1, UnitPrice: 50}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	require.InDelta(t, 1, updated.Items[0].Quantity, 1e-9)
	require.InDelta(t, 9, stockOf(t, conn, productID), 1e-9)
}

func TestServiceProductsNeverLoseStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	serviceID := insertProduct(t, conn, "Support plan", 0, true)

	_, err := svc.Create(ctx, SaveInvoiceRequest{
		Items: []ItemInput{{ProductID: &serviceID, Description: "Support plan", Quantity: 5, UnitPrice: 20}},
	})
	require.NoError(t, err)
	require.InDelta(t, 0, stockOf(t, conn, serviceID), 1e-9)
}

func TestCreateDefaultsTaxRateAndDueDate(t *testing.T) {
	svc, _ := newTestService(t)

	inv, err := svc.Create(context.Background(), SaveInvoiceRequest{
		Date:  "2026-03-01",
		Items: []ItemInput{{Description: "Consulting", Quantity: 2, UnitPrice: 50}},
	})
	require.NoError(t, err)
	// Seeded default_tax_rate is 18.
	require.InDelta(t, 18, inv.TaxRate, 1e-9)
	require.Equal(t, "2026-03-31", inv.DueDate)
	require.InDelta(t, 118, inv.Total, 1e-9)
}

func TestCancelledInvoiceCannotBeEdited(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, SaveInvoiceRequest{
		Items: []ItemInput{{Description: "Widget", Quantity: 1, UnitPrice: 10}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.Update(ctx, inv.ID, SaveInvoiceRequest{
		Items: []ItemInput{{Description: "Widget", Quantity: 2, UnitPrice: 10}},
	})
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestDeleteRemovesPayments(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, SaveInvoiceRequest{
		Items: []ItemInput{{Description: "Widget", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)

	_, err = conn.Exec(
		`INSERT INTO payments (invoice_id, amount, payment_date, method) VALUES (?, ?, ?, ?)`,
		inv.ID, 40.0, "2026-03-01", "Cash")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, inv.ID))

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM payments WHERE invoice_id = ?`, inv.ID))
	require.Zero(t, count)
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, SaveInvoiceRequest{
		Date:  "2026-03-01",
		Items: []ItemInput{{Description: "Widget", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, SaveInvoiceRequest{
		Date:  "2026-04-01",
		Items: []ItemInput{{Description: "Gadget", Quantity: 1, UnitPrice: 200}},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, a.ID)
	require.NoError(t, err)

	pending, err := svc.List(ctx, ListFilter{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	march, err := svc.List(ctx, ListFilter{DateFrom: "2026-03-01", DateTo: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, march, 1)
	require.Equal(t, a.ID, march[0].ID)

	byNumber, err := svc.List(ctx, ListFilter{Search: "1002"})
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
}
