// Package customers manages the customer ledger. Customers are referenced by
// invoices through a nullable foreign key and never cascade-delete them.
package customers

import "time"

// Customer model.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCustomerRequest validates new-customer input at the boundary.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// UpdateCustomerRequest validates edits; absent fields are left unchanged.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// PurchaseStats summarises a customer's invoicing history.
type PurchaseStats struct {
	InvoiceCount int     `json:"invoice_count" db:"invoice_count"`
	Total        float64 `json:"total" db:"total"`
}
