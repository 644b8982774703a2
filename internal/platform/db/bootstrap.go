package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		address TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL DEFAULT 0,
		stock REAL NOT NULL DEFAULT 0,
		is_service INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_number TEXT UNIQUE NOT NULL,
		customer_id INTEGER,
		date TEXT NOT NULL,
		due_date TEXT,
		subtotal REAL NOT NULL DEFAULT 0,
		discount_amount REAL NOT NULL DEFAULT 0,
		discount_percentage REAL NOT NULL DEFAULT 0,
		discounted_subtotal REAL NOT NULL DEFAULT 0,
		tax_rate REAL NOT NULL DEFAULT 0,
		tax_amount REAL NOT NULL DEFAULT 0,
		total REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES customers (id)
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_id INTEGER NOT NULL,
		product_id INTEGER,
		description TEXT NOT NULL,
		quantity REAL NOT NULL DEFAULT 1,
		unit_price REAL NOT NULL DEFAULT 0,
		total REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (invoice_id) REFERENCES invoices (id) ON DELETE CASCADE,
		FOREIGN KEY (product_id) REFERENCES products (id)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		category TEXT NOT NULL,
		amount REAL NOT NULL DEFAULT 0,
		description TEXT,
		payment_method TEXT DEFAULT 'Cash',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_id INTEGER NOT NULL,
		amount REAL NOT NULL DEFAULT 0,
		payment_date TEXT NOT NULL,
		method TEXT DEFAULT 'Cash',
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (invoice_id) REFERENCES invoices (id)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

// defaultSettings are seeded once on first run; existing keys are left alone.
var defaultSettings = [][2]string{
	{"next_invoice_number", "1001"},
	{"business_name", "My Business"},
	{"business_address", ""},
	{"business_phone", ""},
	{"business_email", ""},
	{"default_tax_rate", "18"},
	{"currency_symbol", "₹"},
	{"invoice_prefix", "INV"},
	{"payment_methods", "Cash,Card,Credit,UPI"},
	{"default_payment_method", "Cash"},
}

// Bootstrap creates every table if absent and seeds the default settings.
func Bootstrap(ctx context.Context, conn *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("platform/db: create table: %w", err)
		}
	}
	for _, kv := range defaultSettings {
		_, err := conn.ExecContext(ctx,
			`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, kv[0], kv[1])
		if err != nil {
			return fmt.Errorf("platform/db: seed setting %s: %w", kv[0], err)
		}
	}
	return nil
}
