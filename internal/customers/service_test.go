package customers

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

func TestCreateRequiresName(t *testing.T) {
	svc := newTestService(t)

	// Whitespace-only names pass the boundary's required tag but must still
	// surface as a validation failure, not an internal error.
	_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateRejectsBlankedName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCustomerRequest{Name: "Ravi Traders"})
	require.NoError(t, err)

	blank := "   "
	_, err = svc.Update(ctx, c.ID, UpdateCustomerRequest{Name: &blank})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCustomerRequest{
		Name:  "Ravi Traders",
		Phone: "9876543210",
		Email: "ravi@example.com",
	})
	require.NoError(t, err)
	require.NotZero(t, c.ID)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Ravi Traders", got.Name)
	require.Equal(t, "9876543210", got.Phone)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCustomerRequest{Name: "Sharma Electronics", Email: "info@sharma.in"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCustomerRequest{Name: "Gupta Stores", Phone: "044-123456"})
	require.NoError(t, err)

	byName, err := svc.List(ctx, "sharma")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, "Sharma Electronics", byName[0].Name)

	byEmail, err := svc.List(ctx, "SHARMA.IN")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	byPhone, err := svc.List(ctx, "123456")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	require.Equal(t, "Gupta Stores", byPhone[0].Name)

	none, err := svc.List(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCustomerRequest{Name: "Old Name", Phone: "111"})
	require.NoError(t, err)

	name := "New Name"
	updated, err := svc.Update(ctx, c.ID, UpdateCustomerRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, "111", updated.Phone)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.Delete(context.Background(), 999)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
