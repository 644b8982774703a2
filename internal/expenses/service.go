package expenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/nanoerp/nanoerp/internal/shared"
)

// Service handles expense business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new expense. Amount must be positive.
func (s *Service) Create(ctx context.Context, req CreateExpenseRequest) (*Expense, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("expenses: amount must be > 0: %w", shared.ErrValidation)
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("expenses: category required: %w", shared.ErrValidation)
	}
	method := req.PaymentMethod
	if method == "" {
		method = "Cash"
	}
	e := Expense{
		Date:          req.Date,
		Category:      strings.TrimSpace(req.Category),
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: method,
	}
	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies the provided fields to an existing expense.
func (s *Service) Update(ctx context.Context, id int64, req UpdateExpenseRequest) (*Expense, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil {
		existing.Date = *req.Date
	}
	if req.Category != nil {
		existing.Category = strings.TrimSpace(*req.Category)
	}
	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.PaymentMethod != nil {
		existing.PaymentMethod = *req.PaymentMethod
	}
	if existing.Amount <= 0 {
		return nil, fmt.Errorf("expenses: amount must be > 0: %w", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one expense.
func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	return s.repo.Get(ctx, id)
}

// List returns all expenses, newest first, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]Expense, error) {
	if category != "" {
		return s.repo.ListByCategory(ctx, category)
	}
	return s.repo.List(ctx)
}

// Categories returns the distinct categories in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
