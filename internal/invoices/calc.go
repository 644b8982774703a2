package invoices

// CalculateTotals recomputes every derived monetary field from the items and
// the discount and tax inputs. It is a pure function of the invoice state and
// is idempotent, so callers may run it any number of times.
//
// Discount resolution: a positive percentage wins and the amount is derived
// from it. Otherwise the amount drives, clamped to the subtotal, and the
// percentage is back-derived (zero when the subtotal is zero).
func (inv *Invoice) CalculateTotals() {
	var subtotal float64
	for i := range inv.Items {
		inv.Items[i].Total = inv.Items[i].Quantity * inv.Items[i].UnitPrice
		subtotal += inv.Items[i].Total
	}
	inv.Subtotal = subtotal

	if inv.DiscountPercentage > 0 {
		inv.DiscountAmount = subtotal * inv.DiscountPercentage / 100
	} else {
		if inv.DiscountAmount > subtotal {
			inv.DiscountAmount = subtotal
		}
		if inv.DiscountAmount < 0 {
			inv.DiscountAmount = 0
		}
		if subtotal > 0 {
			inv.DiscountPercentage = inv.DiscountAmount / subtotal * 100
		} else {
			inv.DiscountPercentage = 0
		}
	}

	inv.DiscountedSubtotal = subtotal - inv.DiscountAmount
	inv.TaxAmount = inv.DiscountedSubtotal * inv.TaxRate / 100
	inv.Total = inv.DiscountedSubtotal + inv.TaxAmount
}
