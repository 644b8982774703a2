package expenses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nanoerp/nanoerp/internal/platform/db/dbtest"
	"github.com/nanoerp/nanoerp/internal/shared"
)

func newTestService(t *testing.T) *Service {
	return NewService(NewRepository(dbtest.Open(t)))
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateExpenseRequest{
		Date: "2026-03-01", Category: "Rent", Amount: 0,
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsBlankCategory(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateExpenseRequest{
		Date: "2026-03-01", Category: "   ", Amount: 100,
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateDefaultsPaymentMethodToCash(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.Create(context.Background(), CreateExpenseRequest{
		Date: "2026-03-01", Category: "Rent", Amount: 12000,
	})
	require.NoError(t, err)
	require.Equal(t, "Cash", e.PaymentMethod)
}

func TestListByCategoryAndCategories(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateExpenseRequest{Date: "2026-03-01", Category: "Rent", Amount: 12000})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateExpenseRequest{Date: "2026-03-02", Category: "Utilities", Amount: 800, PaymentMethod: "UPI"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateExpenseRequest{Date: "2026-03-05", Category: "Utilities", Amount: 450})
	require.NoError(t, err)

	utilities, err := svc.List(ctx, "Utilities")
	require.NoError(t, err)
	require.Len(t, utilities, 2)
	// Newest first.
	require.Equal(t, "2026-03-05", utilities[0].Date)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Rent", "Utilities"}, cats)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateExpenseRequest{Date: "2026-03-01", Category: "Rent", Amount: 12000})
	require.NoError(t, err)

	amount := 13000.0
	updated, err := svc.Update(ctx, e.ID, UpdateExpenseRequest{Amount: &amount})
	require.NoError(t, err)
	require.InDelta(t, 13000, updated.Amount, 1e-9)
	require.Equal(t, "Rent", updated.Category)
}
