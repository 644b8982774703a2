package invoices

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nanoerp/nanoerp/internal/settings"
	"github.com/nanoerp/nanoerp/internal/shared"
)

const dateLayout = "2006-01-02"

// FallbackTaxRate applies when the stored default cannot be read or parsed.
const FallbackTaxRate = 18.0

// Service drives the invoice workflows. Creation and edits always flow
// through Save so totals, numbering and stock stay consistent.
type Service struct {
	repo     Repository
	settings *settings.Store
	now      func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, store *settings.Store) *Service {
	return &Service{repo: repo, settings: store, now: time.Now}
}

// Create persists a new invoice from the request, filling date, due date,
// tax rate and number defaults.
func (s *Service) Create(ctx context.Context, req SaveInvoiceRequest) (*Invoice, error) {
	inv, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	inv.Status = StatusPending
	inv.CalculateTotals()
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, inv.ID)
}

// Update replaces the invoice's fields and items. The payment-derived status
// of the stored invoice is preserved; cancelled invoices cannot be edited.
func (s *Service) Update(ctx context.Context, id int64, req SaveInvoiceRequest) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusCancelled {
		return nil, fmt.Errorf("invoices: edit cancelled invoice: %w", shared.ErrInvalidState)
	}

	inv, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	inv.ID = id
	inv.Status = existing.Status
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = existing.InvoiceNumber
	}
	inv.CalculateTotals()
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one invoice with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// List returns invoices newest first, narrowed by the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Invoice, error) {
	return s.repo.List(ctx, filter)
}

// Delete removes the invoice, restoring the stock its items consumed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Cancel marks the invoice cancelled. Stock is not restored and payments are
// kept; cancellation is a bookkeeping state, not an undo.
func (s *Service) Cancel(ctx context.Context, id int64) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusCancelled {
		return existing, nil
	}
	if err := s.repo.SetStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) fromRequest(ctx context.Context, req SaveInvoiceRequest) (*Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("invoices: at least one item required: %w", shared.ErrValidation)
	}

	date := req.Date
	if date == "" {
		date = s.now().Format(dateLayout)
	}
	due := req.DueDate
	if due == "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("invoices: bad date %q: %w", date, shared.ErrValidation)
		}
		due = parsed.AddDate(0, 0, DueDateOffsetDays).Format(dateLayout)
	}

	taxRate := FallbackTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	} else if raw := s.settings.Get(ctx, settings.KeyDefaultTaxRate, ""); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			taxRate = parsed
		}
	}

	inv := &Invoice{
		InvoiceNumber:      strings.TrimSpace(req.InvoiceNumber),
		CustomerID:         req.CustomerID,
		Date:               date,
		DueDate:            due,
		DiscountAmount:     req.DiscountAmount,
		DiscountPercentage: req.DiscountPercentage,
		TaxRate:            taxRate,
		Notes:              req.Notes,
		Items:              make([]Item, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("invoices: item quantity must be > 0: %w", shared.ErrValidation)
		}
		if strings.TrimSpace(it.Description) == "" {
			return nil, fmt.Errorf("invoices: item description required: %w", shared.ErrValidation)
		}
		inv.Items = append(inv.Items, Item{
			ProductID:   it.ProductID,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return inv, nil
}
