package products

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StockAdjuster applies stock deltas inside a caller-supplied transaction so
// the invoice engine can commit item changes and stock changes as one unit.
// Stock is allowed to go negative; availability warnings are a boundary
// concern and never block the adjustment.
type StockAdjuster struct{}

// NewStockAdjuster constructs a StockAdjuster.
func NewStockAdjuster() *StockAdjuster {
	return &StockAdjuster{}
}

// Apply adds delta to the product's stock. Nil product references and
// services are skipped.
func (a *StockAdjuster) Apply(ctx context.Context, tx *sqlx.Tx, productID *int64, delta float64) error {
	if productID == nil {
		return nil
	}

	var isService bool
	err := tx.GetContext(ctx, &isService,
		`SELECT is_service FROM products WHERE id = ?`, *productID)
	if err != nil {
		return fmt.Errorf("products: stock adjust lookup %d: %w", *productID, err)
	}
	if isService {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		delta, *productID)
	if err != nil {
		return fmt.Errorf("products: stock adjust %d: %w", *productID, err)
	}
	return nil
}
