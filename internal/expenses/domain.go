// Package expenses records outgoing money by date, category, and method.
package expenses

import "time"

// Expense model.
type Expense struct {
	ID            int64     `json:"id" db:"id"`
	Date          string    `json:"date" db:"date"`
	Category      string    `json:"category" db:"category"`
	Amount        float64   `json:"amount" db:"amount"`
	Description   string    `json:"description" db:"description"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CreateExpenseRequest validates new-expense input at the boundary.
type CreateExpenseRequest struct {
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Category      string  `json:"category" validate:"required,max=100"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description" validate:"omitempty,max=1000"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,max=50"`
}

// UpdateExpenseRequest validates edits; absent fields are left unchanged.
type UpdateExpenseRequest struct {
	Date          *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Amount        *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	PaymentMethod *string  `json:"payment_method,omitempty" validate:"omitempty,max=50"`
}
