package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/nanoerp/nanoerp/internal/shared"
)

// Service handles customer business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new customer. The name is required; the HTTP boundary
// validates format, this guard covers non-HTTP callers.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("customers: name required: %w", shared.ErrValidation)
	}
	c := Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies the provided fields to an existing customer.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Address != nil {
		existing.Address = *req.Address
	}
	if existing.Name == "" {
		return nil, fmt.Errorf("customers: name required: %w", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns all customers ordered by name. A non-empty query switches to
// case-insensitive substring search over name/email/phone.
func (s *Service) List(ctx context.Context, query string) ([]Customer, error) {
	if strings.TrimSpace(query) != "" {
		return s.repo.Search(ctx, strings.TrimSpace(query))
	}
	return s.repo.List(ctx)
}

// Delete removes a customer; their invoices are kept as walk-ins.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// PurchaseStats reports invoice count and lifetime total for a customer,
// cancelled invoices excluded.
func (s *Service) PurchaseStats(ctx context.Context, id int64) (PurchaseStats, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return PurchaseStats{}, err
	}
	return s.repo.PurchaseStats(ctx, id)
}
