// Package products manages the product/service catalogue and owns stock
// mutation. Services are products whose stock is never tracked.
package products

import "time"

// Product model. Stock is meaningful only when IsService is false.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Stock       float64   `json:"stock" db:"stock"`
	IsService   bool      `json:"is_service" db:"is_service"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateProductRequest validates new-product input at the boundary.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       float64 `json:"stock" validate:"gte=0"`
	IsService   bool    `json:"is_service"`
}

// UpdateProductRequest validates edits; absent fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *float64 `json:"stock,omitempty"`
	IsService   *bool    `json:"is_service,omitempty"`
}

// DefaultLowStockThreshold bounds the advisory low-stock query.
const DefaultLowStockThreshold = 10
