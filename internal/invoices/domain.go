// Package invoices owns the invoice aggregate: monetary computation, atomic
// persistence of header plus line items, invoice numbering, and the stock
// side effects of saving or deleting an invoice.
package invoices

import "time"

// Status enumerates invoice lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// DueDateOffsetDays is added to the invoice date when no due date is given.
const DueDateOffsetDays = 30

// Invoice is the aggregate root. Items are owned (replaced wholesale on
// every update); payments belong to the payments module and are only
// referenced by queries.
type Invoice struct {
	ID                 int64     `json:"id" db:"id"`
	InvoiceNumber      string    `json:"invoice_number" db:"invoice_number"`
	CustomerID         *int64    `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName       string    `json:"customer_name,omitempty" db:"customer_name"`
	Date               string    `json:"date" db:"date"`
	DueDate            string    `json:"due_date" db:"due_date"`
	Subtotal           float64   `json:"subtotal" db:"subtotal"`
	DiscountAmount     float64   `json:"discount_amount" db:"discount_amount"`
	DiscountPercentage float64   `json:"discount_percentage" db:"discount_percentage"`
	DiscountedSubtotal float64   `json:"discounted_subtotal" db:"discounted_subtotal"`
	TaxRate            float64   `json:"tax_rate" db:"tax_rate"`
	TaxAmount          float64   `json:"tax_amount" db:"tax_amount"`
	Total              float64   `json:"total" db:"total"`
	Status             Status    `json:"status" db:"status"`
	Notes              string    `json:"notes" db:"notes"`
	Items              []Item    `json:"items" db:"-"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Item is one line on an invoice. Item identities are not stable across
// edits: updates replace the whole list.
type Item struct {
	ID          int64     `json:"id" db:"id"`
	InvoiceID   int64     `json:"invoice_id" db:"invoice_id"`
	ProductID   *int64    `json:"product_id,omitempty" db:"product_id"`
	Description string    `json:"description" db:"description"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Total       float64   `json:"total" db:"total"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ItemInput is one line of a save request.
type ItemInput struct {
	ProductID   *int64  `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// SaveInvoiceRequest carries a full invoice from the boundary. It serves both
// the insert and update paths; totals are always recomputed server-side.
type SaveInvoiceRequest struct {
	InvoiceNumber      string      `json:"invoice_number" validate:"omitempty,max=50"`
	CustomerID         *int64      `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Date               string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DueDate            string      `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	TaxRate            *float64    `json:"tax_rate,omitempty" validate:"omitempty,gte=0"`
	DiscountAmount     float64     `json:"discount_amount" validate:"gte=0"`
	DiscountPercentage float64     `json:"discount_percentage" validate:"gte=0,lte=100"`
	Notes              string      `json:"notes" validate:"omitempty,max=2000"`
	Items              []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// ListFilter narrows List results.
type ListFilter struct {
	Status        Status
	PaymentMethod string
	DateFrom      string
	DateTo        string
	Search        string
}
