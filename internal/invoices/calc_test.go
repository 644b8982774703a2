package invoices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateTotalsPercentageDiscount(t *testing.T) {
	inv := Invoice{
		TaxRate:            18,
		DiscountPercentage: 10,
		Items: []Item{
			{Quantity: 2, UnitPrice: 50},
		},
	}
	inv.CalculateTotals()

	require.InDelta(t, 100.00, inv.Subtotal, 1e-9)
	require.InDelta(t, 10.00, inv.DiscountAmount, 1e-9)
	require.InDelta(t, 90.00, inv.DiscountedSubtotal, 1e-9)
	require.InDelta(t, 16.20, inv.TaxAmount, 1e-9)
	require.InDelta(t, 106.20, inv.Total, 1e-9)
	require.InDelta(t, 100.00, inv.Items[0].Total, 1e-9)
}

func TestCalculateTotalsAmountDrivesWhenPercentageZero(t *testing.T) {
	inv := Invoice{
		TaxRate:        0,
		DiscountAmount: 25,
		Items: []Item{
			{Quantity: 1, UnitPrice: 200},
		},
	}
	inv.CalculateTotals()

	require.InDelta(t, 25, inv.DiscountAmount, 1e-9)
	require.InDelta(t, 12.5, inv.DiscountPercentage, 1e-9)
	require.InDelta(t, 175, inv.Total, 1e-9)
}

func TestCalculateTotalsPercentageWinsOverAmount(t *testing.T) {
	inv := Invoice{
		DiscountAmount:     999,
		DiscountPercentage: 10,
		Items: []Item{
			{Quantity: 1, UnitPrice: 100},
		},
	}
	inv.CalculateTotals()

	require.InDelta(t, 10, inv.DiscountAmount, 1e-9)
	require.InDelta(t, 90, inv.Total, 1e-9)
}

func TestCalculateTotalsClampsAmountToSubtotal(t *testing.T) {
	inv := Invoice{
		DiscountAmount: 500,
		Items: []Item{
			{Quantity: 1, UnitPrice: 100},
		},
	}
	inv.CalculateTotals()

	require.InDelta(t, 100, inv.DiscountAmount, 1e-9)
	require.InDelta(t, 100, inv.DiscountPercentage, 1e-9)
	require.InDelta(t, 0, inv.Total, 1e-9)
}

func TestCalculateTotalsZeroSubtotal(t *testing.T) {
	inv := Invoice{DiscountAmount: 50, TaxRate: 18}
	inv.CalculateTotals()

	require.Zero(t, inv.Subtotal)
	require.Zero(t, inv.DiscountAmount)
	require.Zero(t, inv.DiscountPercentage)
	require.Zero(t, inv.TaxAmount)
	require.Zero(t, inv.Total)
}

func TestCalculateTotalsIdempotent(t *testing.T) {
	inv := Invoice{
		TaxRate:        18,
		DiscountAmount: 30,
		Items: []Item{
			{Quantity: 3, UnitPrice: 40},
			{Quantity: 1, UnitPrice: 9.99},
		},
	}
	inv.CalculateTotals()
	first := inv
	inv.CalculateTotals()

	require.InDelta(t, first.Subtotal, inv.Subtotal, 1e-9)
	require.InDelta(t, first.DiscountAmount, inv.DiscountAmount, 1e-9)
	require.InDelta(t, first.DiscountPercentage, inv.DiscountPercentage, 1e-9)
	require.InDelta(t, first.TaxAmount, inv.TaxAmount, 1e-9)
	require.InDelta(t, first.Total, inv.Total, 1e-9)
}
