// Package settings persists the flat key/value configuration of the business:
// tax rate, invoice prefix, next invoice number, identity fields.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Well-known setting keys.
const (
	KeyNextInvoiceNumber    = "next_invoice_number"
	KeyDefaultTaxRate       = "default_tax_rate"
	KeyInvoicePrefix        = "invoice_prefix"
	KeyCurrencySymbol       = "currency_symbol"
	KeyPaymentMethods       = "payment_methods"
	KeyDefaultPaymentMethod = "default_payment_method"
	KeyBusinessName         = "business_name"
)

// Store reads and writes the settings table.
type Store struct {
	conn *sqlx.DB
}

// NewStore constructs a Store.
func NewStore(conn *sqlx.DB) *Store {
	return &Store{conn: conn}
}

// Get returns the value for key, or fallback when the key is missing or the
// read fails. Read failures never propagate to callers.
func (s *Store) Get(ctx context.Context, key, fallback string) string {
	var value string
	err := s.conn.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if err != nil {
		return fallback
	}
	return value
}

// Set upserts a setting and refreshes its updated_at timestamp.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("settings: set %s: %w", key, err)
	}
	return nil
}

// All returns every stored setting.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.conn.QueryxContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("settings: list: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("settings: scan: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}
