package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nanoerp/nanoerp/internal/platform/db/dbtest"
)

func TestGetReturnsFallbackForMissingKey(t *testing.T) {
	store := NewStore(dbtest.Open(t))

	got := store.Get(context.Background(), "no_such_key", "fallback")
	require.Equal(t, "fallback", got)
}

func TestDefaultsSeededOnBootstrap(t *testing.T) {
	store := NewStore(dbtest.Open(t))
	ctx := context.Background()

	require.Equal(t, "1001", store.Get(ctx, KeyNextInvoiceNumber, ""))
	require.Equal(t, "18", store.Get(ctx, KeyDefaultTaxRate, ""))
	require.Equal(t, "INV", store.Get(ctx, KeyInvoicePrefix, ""))
	require.Equal(t, "₹", store.Get(ctx, KeyCurrencySymbol, ""))
	require.Equal(t, "Cash,Card,Credit,UPI", store.Get(ctx, KeyPaymentMethods, ""))
}

func TestSetUpsertsValue(t *testing.T) {
	store := NewStore(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "business_name", "Acme Traders"))
	require.Equal(t, "Acme Traders", store.Get(ctx, "business_name", ""))

	require.NoError(t, store.Set(ctx, "business_name", "Acme Traders Pvt Ltd"))
	require.Equal(t, "Acme Traders Pvt Ltd", store.Get(ctx, "business_name", ""))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Equal(t, "Acme Traders Pvt Ltd", all["business_name"])
}
