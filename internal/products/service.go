package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/nanoerp/nanoerp/internal/shared"
)

// Service handles product business logic.
type Service struct {
	repo              Repository
	lowStockThreshold float64
}

// NewService builds a Service. A non-positive threshold falls back to the
// default of 10.
func NewService(repo Repository, lowStockThreshold float64) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &Service{repo: repo, lowStockThreshold: lowStockThreshold}
}

// Create stores a new product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("products: name required: %w", shared.ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("products: price must be >= 0: %w", shared.ErrValidation)
	}
	p := Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsService:   req.IsService,
	}
	if p.IsService {
		p.Stock = 0
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies the provided fields to an existing product.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Price != nil {
		existing.Price = *req.Price
	}
	if req.Stock != nil {
		existing.Stock = *req.Stock
	}
	if req.IsService != nil {
		existing.IsService = *req.IsService
	}
	if existing.Name == "" {
		return nil, fmt.Errorf("products: name required: %w", shared.ErrValidation)
	}
	if existing.Price < 0 {
		return nil, fmt.Errorf("products: price must be >= 0: %w", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns all products, or a case-insensitive substring search when
// query is non-empty.
func (s *Service) List(ctx context.Context, query string) ([]Product, error) {
	if strings.TrimSpace(query) != "" {
		return s.repo.Search(ctx, strings.TrimSpace(query))
	}
	return s.repo.List(ctx)
}

// LowStock returns non-service products with stock strictly between zero and
// the configured threshold.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	return s.repo.LowStock(ctx, s.lowStockThreshold)
}

// Delete refuses to remove a product still referenced by invoice items; the
// pre-check keeps the failure mode explicit instead of relying on the
// foreign-key constraint.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.ReferenceCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("products: referenced by %d invoice item(s): %w", count, shared.ErrInUse)
	}
	return s.repo.Delete(ctx, id)
}

// UpdateStock adjusts stock by delta. Services are unaffected.
func (s *Service) UpdateStock(ctx context.Context, id int64, delta float64) (*Product, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStock(ctx, id, delta); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
