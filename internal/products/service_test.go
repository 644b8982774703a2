package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nanoerp/nanoerp/internal/platform/db/dbtest"
	"github.com/nanoerp/nanoerp/internal/shared"
)

func newTestService(t *testing.T) (*Service, Repository) {
	repo := NewRepository(dbtest.Open(t))
	return NewService(repo, 0), repo
}

func TestCreateRejectsBlankNameAndNegativePrice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductRequest{Name: "   ", Price: 10})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateProductRequest{Name: "Cable", Price: -1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateServiceProductHasNoStock(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name:      "Installation",
		Price:     500,
		Stock:     25,
		IsService: true,
	})
	require.NoError(t, err)
	require.True(t, p.IsService)
	require.Zero(t, p.Stock)
}

func TestUpdateStockSkipsServices(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	service, err := svc.Create(ctx, CreateProductRequest{Name: "Repair", Price: 300, IsService: true})
	require.NoError(t, err)

	got, err := svc.UpdateStock(ctx, service.ID, -5)
	require.NoError(t, err)
	require.Zero(t, got.Stock)

	goods, err := svc.Create(ctx, CreateProductRequest{Name: "Cable", Price: 40, Stock: 10})
	require.NoError(t, err)

	got, err = svc.UpdateStock(ctx, goods.ID, -3)
	require.NoError(t, err)
	require.InDelta(t, 7, got.Stock, 1e-9)
}

func TestStockMayGoNegative(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductRequest{Name: "Bulb", Price: 20, Stock: 2})
	require.NoError(t, err)

	got, err := svc.UpdateStock(ctx, p.ID, -5)
	require.NoError(t, err)
	require.InDelta(t, -3, got.Stock, 1e-9)
}

func TestLowStockExcludesZeroAndServices(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductRequest{Name: "Low", Price: 10, Stock: 3})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductRequest{Name: "Out", Price: 10, Stock: 0})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductRequest{Name: "Plenty", Price: 10, Stock: 50})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductRequest{Name: "Consulting", Price: 10, IsService: true})
	require.NoError(t, err)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Low", low[0].Name)
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc := NewService(repo, 0)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductRequest{Name: "Switch", Price: 120, Stock: 5})
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx,
		`INSERT INTO invoices (invoice_number, date, status) VALUES ('9001', '2026-01-10', 'pending')`)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `
		INSERT INTO invoice_items (invoice_id, product_id, description, quantity, unit_price, total)
		VALUES (1, ?, 'Switch', 1, 120, 120)`, p.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, p.ID)
	require.ErrorIs(t, err, shared.ErrInUse)

	// Still present.
	_, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)

	// Releasing the reference unblocks deletion.
	_, err = conn.ExecContext(ctx, `DELETE FROM invoice_items WHERE product_id = ?`, p.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))
}
