// Package payments records money received against invoices and derives the
// invoice status from the running payment total.
package payments

import "time"

// Payment is one payment received against an invoice. Payments are never
// removed except when the owning invoice is deleted.
type Payment struct {
	ID          int64     `json:"id" db:"id"`
	InvoiceID   int64     `json:"invoice_id" db:"invoice_id"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentDate string    `json:"payment_date" db:"payment_date"`
	Method      string    `json:"method" db:"method"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Summary is the payment position of a single invoice.
type Summary struct {
	Total       float64   `json:"total"`
	Paid        float64   `json:"paid"`
	Balance     float64   `json:"balance"`
	IsFullyPaid bool      `json:"is_fully_paid"`
	Payments    []Payment `json:"payments"`
}

// AddPaymentRequest records a payment against an invoice.
type AddPaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate string  `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Method      string  `json:"method" validate:"omitempty,max=50"`
	Notes       string  `json:"notes" validate:"omitempty,max=2000"`
}

// MarkAsPaidRequest settles an invoice in one payment.
type MarkAsPaidRequest struct {
	PaymentDate string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Method      string `json:"method" validate:"omitempty,max=50"`
}

// UpdatePaymentRequest edits a recorded payment. The boundary does not use
// it, but the operation exists for completeness.
type UpdatePaymentRequest struct {
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaymentDate *string  `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Method      *string  `json:"method,omitempty" validate:"omitempty,max=50"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
